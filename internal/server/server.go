package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/semaphore"

	"so-http-sync/internal/handlers"
	"so-http-sync/internal/http10"
	"so-http-sync/internal/router"
	"so-http-sync/internal/stats"
	"so-http-sync/internal/util"
)

// Config son las entradas fijas del servidor. Se leen al arrancar y no
// cambian después.
type Config struct {
	// DocRoot es el directorio desde el que se sirven archivos.
	DocRoot string
	// Confine rechaza con 404 los paths que salen de DocRoot.
	Confine bool
	// MaxConns > 0 limita los workers simultáneos; 0 = sin límite.
	// El exceso espera en el backlog del kernel, no en una cola propia.
	MaxConns int
	// IOTimeout > 0 pone un deadline a cada conexión; 0 = sin deadline.
	IOTimeout time.Duration
	Logger    *slog.Logger
}

type connInfo struct {
	id    string
	since time.Time
}

// Server es el estado del proceso: listener, arranque, estadísticas y la
// tabla de conexiones vivas.
type Server struct {
	cfg     Config
	log     *slog.Logger
	stats   *stats.Registry
	started time.Time
	env     *handlers.Env

	sem   *semaphore.Weighted
	conns *xsync.MapOf[net.Conn, connInfo]

	ctx     context.Context
	cancel  context.CancelFunc
	closing atomic.Bool

	mu sync.Mutex
	ln net.Listener
}

// New crea el servidor con un DocRoot sobre el sistema de archivos local.
func New(cfg Config) *Server {
	return NewWithRoot(cfg, handlers.Dir{Root: cfg.DocRoot})
}

// NewWithRoot crea el servidor sobre un DocRoot arbitrario.
func NewWithRoot(cfg Config, root handlers.DocRoot) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		log:     log,
		stats:   stats.NewRegistry(),
		started: time.Now(),
		conns:   xsync.NewMapOf[net.Conn, connInfo](),
	}
	s.env = &handlers.Env{Stats: s.stats, Root: root, Started: s.started, Confine: cfg.Confine}
	if cfg.MaxConns > 0 {
		s.sem = semaphore.NewWeighted(int64(cfg.MaxConns))
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

func (s *Server) Stats() *stats.Registry { return s.stats }
func (s *Server) Uptime() time.Duration { return time.Since(s.started) }

// ActiveConns es el número de conexiones en la tabla de vivas.
func (s *Server) ActiveConns() int { return s.conns.Size() }

// Serve es el bucle de aceptación: una goroutine por conexión, que no se
// espera. Un fallo de Accept se registra y el bucle sigue. Devuelve nil
// cuando el listener se cierra por Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	if s.closing.Load() {
		ln.Close()
		return nil
	}

	var backoff time.Duration
	for {
		if s.sem != nil {
			if err := s.sem.Acquire(s.ctx, 1); err != nil {
				return nil
			}
		}

		c, err := ln.Accept()
		if err != nil {
			s.release()
			if s.closing.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accept: %w", err)
			}
			backoff = nextBackoff(backoff)
			s.log.Warn("accept failed", "err", err, "retry_in", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		// Se registra antes de lanzar el worker para que Shutdown la vea
		// aunque la goroutine aún no haya arrancado.
		s.conns.Store(c, newConnInfo())
		go func() {
			defer s.release()
			s.HandleConn(c)
		}()
	}
}

func (s *Server) release() {
	if s.sem != nil {
		s.sem.Release(1)
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}

// HandleConn atiende exactamente una petición y cierra la conexión:
// contar, leer, parsear, enrutar, responder, descontar, cerrar.
func (s *Server) HandleConn(c net.Conn) {
	info, _ := s.conns.LoadOrStore(c, newConnInfo())
	s.stats.Begin()
	defer func() {
		s.stats.End()
		c.Close()
		s.conns.Delete(c)
	}()

	if s.cfg.IOTimeout > 0 {
		_ = c.SetDeadline(info.since.Add(s.cfg.IOTimeout))
	}

	req, n, err := http10.ReadRequest(c)
	s.stats.AddBytes(uint64(n), 0)

	d := router.Decision{Kind: router.Rejected}
	if err == nil {
		req.Path = router.Normalize(req.Path)
		d = router.Decide(req.Method, req.Path)
	} else {
		s.log.Debug("bad request", "conn", info.id, "bytes", n, "err", err)
	}

	res := s.env.Serve(c, d)

	s.log.Debug("served",
		"conn", info.id,
		"remote", remoteAddr(c),
		"method", req.Method,
		"path", req.Path,
		"route", d.Kind.String(),
		"status", res.Outcome.Status(),
		"sent", humanize.Bytes(res.Sent),
		"took", time.Since(info.since),
		"err", res.Err,
	)
}

func newConnInfo() connInfo {
	return connInfo{id: util.NewConnID(), since: time.Now()}
}

func remoteAddr(c net.Conn) string {
	if a := c.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}

// Shutdown cierra el listener, espera a que terminen los workers en curso
// hasta que venza ctx y después cierra a la fuerza las conexiones que queden.
// Con un ctx ya vencido el cierre es inmediato.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closing.Store(true)
	s.cancel()

	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}

	poll := time.Millisecond
	timer := time.NewTimer(poll)
	defer timer.Stop()
	for {
		if s.conns.Size() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			n := s.closeConns()
			s.log.Warn("forced close of in-flight connections", "count", n)
			return ctx.Err()
		case <-timer.C:
			if poll *= 2; poll > 100*time.Millisecond {
				poll = 100 * time.Millisecond
			}
			timer.Reset(poll)
		}
	}
}

func (s *Server) closeConns() int {
	n := 0
	s.conns.Range(func(c net.Conn, info connInfo) bool {
		s.log.Debug("closing", "conn", info.id, "age", time.Since(info.since))
		_ = c.Close()
		n++
		return true
	})
	return n
}

// Summary devuelve pares clave/valor con los contadores para el log de cierre.
func (s *Server) Summary() []any {
	snap := s.stats.Snapshot()
	return []any{
		"uptime", stats.SplitUptime(s.Uptime()).String(),
		"requests", snap.TotalRequests,
		"received", humanize.Bytes(snap.BytesReceived),
		"transmitted", humanize.Bytes(snap.BytesTransmitted),
		"2xx", snap.Responses2xx,
		"4xx", snap.Responses4xx,
		"5xx", snap.Responses5xx,
	}
}
