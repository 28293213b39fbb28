package stats

import (
	"fmt"
	"io"
	"sync"
	"time"

	"so-http-sync/internal/resp"
)

// Registry guarda los contadores globales del proceso.
// Toda lectura o escritura pasa por mu; una actualización compuesta
// (p. ej. Begin, AddBytes) es una sola sección crítica.
type Registry struct {
	mu sync.Mutex

	active      int
	requests    uint64
	bytesRx     uint64
	bytesTx     uint64
	classCounts [3]uint64 // indexado por resp.Class
}

// Snapshot es una copia consistente del registro.
type Snapshot struct {
	ActiveConnections int
	TotalRequests     uint64
	BytesReceived     uint64
	BytesTransmitted  uint64
	Responses2xx      uint64
	Responses4xx      uint64
	Responses5xx      uint64
}

func NewRegistry() *Registry { return &Registry{} }

// Begin marca el inicio de un worker: active++ y total++ juntos.
func (r *Registry) Begin() {
	r.mu.Lock()
	r.active++
	r.requests++
	r.mu.Unlock()
}

// End marca el fin de un worker. active nunca baja de cero.
func (r *Registry) End() {
	r.mu.Lock()
	if r.active > 0 {
		r.active--
	}
	r.mu.Unlock()
}

// AddBytes suma recibidos y transmitidos en una misma sección crítica.
func (r *Registry) AddBytes(received, transmitted uint64) {
	r.mu.Lock()
	r.bytesRx += received
	r.bytesTx += transmitted
	r.mu.Unlock()
}

// Record cuenta exactamente un resultado en su clase.
func (r *Registry) Record(o resp.Outcome) {
	r.mu.Lock()
	r.classCounts[o.Class()]++
	r.mu.Unlock()
}

func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		ActiveConnections: r.active,
		TotalRequests:     r.requests,
		BytesReceived:     r.bytesRx,
		BytesTransmitted:  r.bytesTx,
		Responses2xx:      r.classCounts[resp.Class2xx],
		Responses4xx:      r.classCounts[resp.Class4xx],
		Responses5xx:      r.classCounts[resp.Class5xx],
	}
}

// Uptime descompone una duración en días, horas, minutos y segundos.
type Uptime struct {
	Days, Hours, Minutes, Seconds uint64
}

func SplitUptime(d time.Duration) Uptime {
	if d < 0 {
		d = 0
	}
	s := uint64(d / time.Second)
	return Uptime{
		Days:    s / 86400,
		Hours:   (s % 86400) / 3600,
		Minutes: (s % 3600) / 60,
		Seconds: s % 60,
	}
}

func (u Uptime) String() string {
	return fmt.Sprintf("%d days, %02d:%02d:%02d", u.Days, u.Hours, u.Minutes, u.Seconds)
}

// WriteText escribe el snapshot en el formato de texto plano de /stats.
func (s Snapshot) WriteText(w io.Writer, up Uptime) (int, error) {
	return fmt.Fprintf(w,
		"Active connections: %d\n"+
			"Total requests served: %d\n"+
			"Uptime: %s\n"+
			"Total bytes received: %d\n"+
			"Total bytes transmitted: %d\n"+
			"HTTP 2xx responses: %d\n"+
			"HTTP 4xx responses: %d\n"+
			"HTTP 5xx responses: %d\n",
		s.ActiveConnections, s.TotalRequests, up,
		s.BytesReceived, s.BytesTransmitted,
		s.Responses2xx, s.Responses4xx, s.Responses5xx)
}
