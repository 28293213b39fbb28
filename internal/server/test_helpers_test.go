package server

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// quietLogger descarta los logs de debug de los tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer crea un document root temporal con files y un Server sobre él.
// Los nombres terminados en "/" se crean como directorios.
func newTestServer(t *testing.T, files map[string]string) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, name)
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	s := New(Config{DocRoot: root, Confine: true, Logger: quietLogger()})
	return s, root
}

// hit envía req al worker del servidor usando net.Pipe y devuelve la
// respuesta cruda (hasta que el servidor cierra).
func hit(t *testing.T, s *Server, req string) []byte {
	t.Helper()

	c1, c2 := net.Pipe()
	t.Cleanup(func() { c1.Close(); c2.Close() })

	done := make(chan struct{})
	go func() {
		_ = c1.SetDeadline(time.Now().Add(5 * time.Second))
		s.HandleConn(c1)
		close(done)
	}()

	if _, err := io.WriteString(c2, req); err != nil {
		t.Fatalf("write request: %v", err)
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, c2); err != nil && !errorsIsClosed(err) {
		t.Fatalf("read response: %v", err)
	}
	<-done

	return buf.Bytes()
}

func errorsIsClosed(err error) bool {
	return errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed)
}

// bodyOf extrae el cuerpo del response (lo que viene después del \r\n\r\n).
func bodyOf(r []byte) string {
	i := bytes.Index(r, []byte("\r\n\r\n"))
	if i < 0 {
		return ""
	}
	return string(r[i+4:])
}

// contentTypeOf devuelve el valor de Content-Type.
func contentTypeOf(r []byte) string {
	br := bufio.NewReader(bytes.NewReader(r))
	_, _ = br.ReadString('\n')
	for {
		line, err := br.ReadString('\n')
		if line == "\r\n" || err != nil {
			return ""
		}
		if k, v, ok := strings.Cut(strings.TrimRight(line, "\r\n"), ":"); ok && strings.EqualFold(k, "Content-Type") {
			return strings.TrimSpace(v)
		}
	}
}

// codeOf retorna el status code de "HTTP/1.1 200 ..." en la primera línea.
func codeOf(r []byte) int {
	br := bufio.NewReader(bytes.NewReader(r))
	line, _ := br.ReadString('\n')
	parts := strings.Fields(line)
	if len(parts) >= 2 {
		if n := parseInt(parts[1]); n > 0 {
			return n
		}
	}
	return 0
}

func parseInt(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// must200 falla el test si el response no trae 200.
func must200(t *testing.T, name string, r []byte) {
	t.Helper()
	if codeOf(r) != 200 {
		t.Fatalf("%s: want HTTP/1.1 200, got: %s", name, string(r))
	}
}

// statsField lee un contador del cuerpo de /stats ("Nombre: valor").
func statsField(body, name string) int {
	for _, ln := range strings.Split(body, "\n") {
		if v, ok := strings.CutPrefix(ln, name+": "); ok {
			return parseInt(v)
		}
	}
	return -1
}
