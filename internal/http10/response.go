package http10

import (
	"fmt"
	"io"
)

const (
	TextPlain   = "text/plain"
	TextHTML    = "text/html"
	OctetStream = "application/octet-stream"
)

// NotFoundBody es el cuerpo HTML fijo de las respuestas 404.
const NotFoundBody = "<h1>404 Not Found</h1>"

// WriteHead escribe la línea de estado y la única cabecera (Content-Type)
// seguidas de la línea en blanco. El cuerpo, si lo hay, va a continuación.
func WriteHead(w io.Writer, status int, contentType string) error {
	_, err := io.WriteString(w, fmt.Sprintf("HTTP/1.1 %d %s\r\nContent-Type: %s\r\n\r\n",
		status, statusText(status), contentType))
	return err
}

// WriteNotFound escribe una respuesta 404 completa con cuerpo HTML.
func WriteNotFound(w io.Writer) error {
	if err := WriteHead(w, 404, TextHTML); err != nil {
		return err
	}
	_, err := io.WriteString(w, NotFoundBody)
	return err
}

func statusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 404:
		return "Not Found"
	default:
		return "Internal Server Error"
	}
}
