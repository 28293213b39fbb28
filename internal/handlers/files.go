package handlers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry es un elemento del document root tal como lo enumera el sistema.
type Entry struct {
	Name    string
	Regular bool
}

// DocRoot es lo único que los handlers necesitan del sistema de archivos.
// Open recibe un path relativo con '/' como separador.
type DocRoot interface {
	Open(rel string) (io.ReadCloser, error)
	List() ([]Entry, error)
}

var (
	// ErrOutsideRoot: el nombre pedido escaparía del document root.
	ErrOutsideRoot = errors.New("path escapes document root")
	// ErrNotRegular: el path existe pero no es un archivo regular.
	ErrNotRegular = errors.New("not a regular file")
)

// Dir implementa DocRoot sobre el sistema de archivos local.
// Los paths se concatenan al root sin limpiar: la confinación, si se
// quiere, la deciden los handlers antes de llamar a Open.
type Dir struct {
	Root string
}

func (d Dir) Open(rel string) (io.ReadCloser, error) {
	full := strings.TrimRight(d.Root, "/") + "/" + strings.TrimLeft(rel, "/")
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !st.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%s: %w", rel, ErrNotRegular)
	}
	return f, nil
}

// List devuelve las entradas del root en el orden del directorio.
func (d Dir) List() ([]Entry, error) {
	f, err := os.Open(d.Root)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	des, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(des))
	for _, de := range des {
		out = append(out, Entry{Name: de.Name(), Regular: de.Type().IsRegular()})
	}
	return out, nil
}

// sanitize permite solo nombres simples de archivo: un único componente,
// sin separadores y distinto de "." y "..". "v1..2.tar" es válido.
func sanitize(name string) (string, bool) {
	if name == "" || name == "." || name == ".." {
		return "", false
	}
	if strings.ContainsAny(name, "/\\") {
		return "", false
	}
	return name, true
}

// confined informa si un path absoluto (empieza por '/') queda dentro del
// root: ningún segmento puede ser "..".
func confined(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return false
		}
	}
	return !strings.Contains(p, "\\")
}
