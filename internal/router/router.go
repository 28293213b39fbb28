package router

import "strings"

// Kind identifica el handler elegido para una petición.
type Kind int

const (
	Rejected Kind = iota
	Diagnostics
	ListDirectory
	DownloadNamed
	ServeStatic
)

func (k Kind) String() string {
	switch k {
	case Diagnostics:
		return "diagnostics"
	case ListDirectory:
		return "list"
	case DownloadNamed:
		return "download"
	case ServeStatic:
		return "static"
	default:
		return "rejected"
	}
}

// Decision es el resultado del enrutado. Arg lleva el nombre de archivo
// (DownloadNamed) o el path (ServeStatic); vacío en los demás casos.
type Decision struct {
	Kind Kind
	Arg  string
}

const (
	statsPath  = "/stats"
	syncPath   = "/sync"
	syncPrefix = "/sync/"
	indexPath  = "/index.html"
)

// Normalize reescribe "/" como "/index.html".
func Normalize(path string) string {
	if path == "/" {
		return indexPath
	}
	return path
}

// Decide es una función pura (method, path) -> Decision. Orden de prioridad:
//   /stats, /sync, /sync/<name>, cualquier GET, y el resto se rechaza.
// Los endpoints virtuales no miran el método; el fallback estático sí.
func Decide(method, path string) Decision {
	switch {
	case path == statsPath:
		return Decision{Kind: Diagnostics}
	case path == syncPath:
		return Decision{Kind: ListDirectory}
	case strings.HasPrefix(path, syncPrefix):
		return Decision{Kind: DownloadNamed, Arg: firstToken(path[len(syncPrefix):])}
	case method == "GET":
		return Decision{Kind: ServeStatic, Arg: path}
	}
	return Decision{Kind: Rejected}
}

// firstToken corta en el primer espacio en blanco.
func firstToken(s string) string {
	if i := strings.IndexAny(s, " \t\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
