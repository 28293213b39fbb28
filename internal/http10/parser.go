package http10

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

// MaxRequestSize es lo máximo que se lee de una conexión. Se hace una sola
// lectura: lo que exceda este tamaño se descarta sin leer.
const MaxRequestSize = 1024

// Request modela lo único que se interpreta de la petición: método y path
// de la primera línea. Headers y cuerpo se ignoran.
type Request struct {
	Method string
	Path   string
}

// ErrBadRequest: la primera línea no trae método y path utilizables.
var ErrBadRequest = errors.New("malformed request line (method/path)")

// ReadRequest hace una única lectura de hasta MaxRequestSize bytes desde r.
// Devuelve los bytes leídos (para estadísticas) aunque haya error.
// Un error de lectura se trata como petición vacía.
func ReadRequest(r io.Reader) (Request, int, error) {
	var buf [MaxRequestSize]byte
	n, err := r.Read(buf[:])
	if n <= 0 {
		if err == nil {
			err = ErrBadRequest
		}
		return Request{}, 0, err
	}
	req, perr := ParseRequestLine(buf[:n])
	return req, n, perr
}

// ParseRequestLine toma los dos primeros tokens (separados por espacios)
// de la primera línea de buf como método y path.
// El path debe empezar por '/'; si falta, se devuelve ErrBadRequest con el
// método que se haya podido recuperar.
func ParseRequestLine(buf []byte) (Request, error) {
	line := buf
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		line = buf[:i]
	}
	fields := strings.Fields(string(line))

	var req Request
	if len(fields) > 0 {
		req.Method = fields[0]
	}
	if len(fields) < 2 {
		return req, ErrBadRequest
	}
	if !strings.HasPrefix(fields[1], "/") {
		return req, ErrBadRequest
	}
	req.Path = fields[1]
	return req, nil
}
