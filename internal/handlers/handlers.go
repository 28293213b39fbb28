package handlers

import (
	"fmt"
	"io"
	"time"

	"so-http-sync/internal/http10"
	"so-http-sync/internal/resp"
	"so-http-sync/internal/router"
	"so-http-sync/internal/stats"
)

// ChunkSize es el tamaño de cada trozo al transmitir un archivo.
const ChunkSize = 1024

// Env agrupa lo que comparten todos los handlers.
type Env struct {
	Stats   *stats.Registry
	Root    DocRoot
	Started time.Time

	// Confine rechaza (404) nombres y paths que salen del root.
	// Con false se concatenan tal cual, sin comprobación.
	Confine bool

	// Now se puede sustituir en tests; nil usa time.Now.
	Now func() time.Time
}

// Result resume lo que hizo un handler: el resultado registrado, los bytes
// de archivo enviados y el error (E/S o fs) que lo provocó, si lo hubo.
type Result struct {
	Outcome resp.Outcome
	Sent    uint64
	Err     error
}

// Serve ejecuta el handler elegido por el router. Cada rama registra
// exactamente un resultado en Stats.
func (e *Env) Serve(w io.Writer, d router.Decision) Result {
	switch d.Kind {
	case router.Diagnostics:
		return e.Diagnostics(w)
	case router.ListDirectory:
		return e.ListDirectory(w)
	case router.DownloadNamed:
		return e.DownloadNamed(w, d.Arg)
	case router.ServeStatic:
		return e.ServeStatic(w, d.Arg)
	default:
		return e.Rejected(w)
	}
}

// Diagnostics escribe los contadores y el uptime en texto plano.
// El 200 de esta misma petición se cuenta después de tomar el snapshot.
func (e *Env) Diagnostics(w io.Writer) Result {
	snap := e.Stats.Snapshot()
	up := stats.SplitUptime(e.now().Sub(e.Started))
	e.Stats.Record(resp.Ok)

	if err := http10.WriteHead(w, 200, http10.TextPlain); err != nil {
		return Result{Outcome: resp.Ok, Err: err}
	}
	_, err := snap.WriteText(w, up)
	return Result{Outcome: resp.Ok, Err: err}
}

// ListDirectory lista los archivos regulares del root, uno por línea.
func (e *Env) ListDirectory(w io.Writer) Result {
	entries, err := e.Root.List()
	if err != nil {
		e.Stats.Record(resp.ServerError)
		_ = http10.WriteHead(w, 500, http10.TextPlain)
		return Result{Outcome: resp.ServerError, Err: err}
	}

	e.Stats.Record(resp.Ok)
	if err := http10.WriteHead(w, 200, http10.TextPlain); err != nil {
		return Result{Outcome: resp.Ok, Err: err}
	}
	for _, en := range entries {
		if !en.Regular {
			continue
		}
		if _, err := io.WriteString(w, en.Name+"\n"); err != nil {
			return Result{Outcome: resp.Ok, Err: err}
		}
	}
	return Result{Outcome: resp.Ok}
}

// DownloadNamed envía <root>/<name> como application/octet-stream.
func (e *Env) DownloadNamed(w io.Writer, name string) Result {
	if e.Confine {
		if _, ok := sanitize(name); !ok {
			return e.notFound(w, fmt.Errorf("download %q: %w", name, ErrOutsideRoot))
		}
	} else if name == "" {
		return e.notFound(w, fmt.Errorf("download: empty name"))
	}
	return e.sendFile(w, name, http10.OctetStream)
}

// ServeStatic envía <root><path> como text/html.
func (e *Env) ServeStatic(w io.Writer, path string) Result {
	if e.Confine && !confined(path) {
		return e.notFound(w, fmt.Errorf("static %q: %w", path, ErrOutsideRoot))
	}
	return e.sendFile(w, path, http10.TextHTML)
}

// Rejected responde 404 sin tocar el sistema de archivos.
func (e *Env) Rejected(w io.Writer) Result {
	return e.notFound(w, nil)
}

func (e *Env) notFound(w io.Writer, cause error) Result {
	e.Stats.Record(resp.NotFound)
	if err := http10.WriteNotFound(w); err != nil && cause == nil {
		cause = err
	}
	return Result{Outcome: resp.NotFound, Err: cause}
}

// sendFile abre rel y lo transmite en trozos de ChunkSize; cada trozo
// escrito suma a bytes_transmitted.
func (e *Env) sendFile(w io.Writer, rel, contentType string) Result {
	f, err := e.Root.Open(rel)
	if err != nil {
		return e.notFound(w, err)
	}
	defer f.Close()

	e.Stats.Record(resp.Ok)
	if err := http10.WriteHead(w, 200, contentType); err != nil {
		return Result{Outcome: resp.Ok, Err: err}
	}

	var sent uint64
	buf := make([]byte, ChunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			wn, werr := w.Write(buf[:n])
			if wn > 0 {
				e.Stats.AddBytes(0, uint64(wn))
				sent += uint64(wn)
			}
			if werr != nil {
				return Result{Outcome: resp.Ok, Sent: sent, Err: werr}
			}
		}
		if rerr == io.EOF {
			return Result{Outcome: resp.Ok, Sent: sent}
		}
		if rerr != nil {
			return Result{Outcome: resp.Ok, Sent: sent, Err: rerr}
		}
	}
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
