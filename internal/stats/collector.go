package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "syncserver"

// Collector expone el Registry a Prometheus. Cada scrape toma un único
// Snapshot, así las series de una misma muestra son coherentes entre sí.
type Collector struct {
	reg     *Registry
	started time.Time

	active    *prometheus.Desc
	requests  *prometheus.Desc
	bytes     *prometheus.Desc
	responses *prometheus.Desc
	uptime    *prometheus.Desc
}

func NewCollector(reg *Registry, started time.Time) *Collector {
	return &Collector{
		reg:     reg,
		started: started,
		active: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "active_connections"),
			"Connections currently being served.", nil, nil),
		requests: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_total"),
			"Connections accepted and handed to a worker.", nil, nil),
		bytes: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "bytes_total"),
			"Bytes received from clients and file bytes transmitted.",
			[]string{"direction"}, nil),
		responses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "responses_total"),
			"Responses by status class.", []string{"class"}, nil),
		uptime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "uptime_seconds"),
			"Seconds since the server started.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.active
	ch <- c.requests
	ch <- c.bytes
	ch <- c.responses
	ch <- c.uptime
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.reg.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(s.ActiveConnections))
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(s.TotalRequests))
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.CounterValue, float64(s.BytesReceived), "received")
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.CounterValue, float64(s.BytesTransmitted), "transmitted")
	ch <- prometheus.MustNewConstMetric(c.responses, prometheus.CounterValue, float64(s.Responses2xx), "2xx")
	ch <- prometheus.MustNewConstMetric(c.responses, prometheus.CounterValue, float64(s.Responses4xx), "4xx")
	ch <- prometheus.MustNewConstMetric(c.responses, prometheus.CounterValue, float64(s.Responses5xx), "5xx")
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, time.Since(c.started).Seconds())
}
