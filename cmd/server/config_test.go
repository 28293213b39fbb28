package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig(env(nil))
	assert.Equal(t, config{
		Port:          8080,
		DocRoot:       "./www",
		Backlog:       5,
		MaxConns:      0,
		IOTimeout:     0,
		ShutdownGrace: 0,
		Confine:       true,
		MetricsAddr:   "",
		LogLevel:      slog.LevelInfo,
	}, cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg := loadConfig(env(map[string]string{
		"PORT":           "9000",
		"DOC_ROOT":       "/srv/www",
		"BACKLOG":        "128",
		"MAX_CONNS":      "64",
		"IO_TIMEOUT":     "1500ms",
		"SHUTDOWN_GRACE": "3",
		"CONFINE_ROOT":   "false",
		"METRICS_ADDR":   ":9090",
		"LOG_LEVEL":      "debug",
	}))
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/srv/www", cfg.DocRoot)
	assert.Equal(t, 128, cfg.Backlog)
	assert.Equal(t, 64, cfg.MaxConns)
	assert.Equal(t, 1500*time.Millisecond, cfg.IOTimeout)
	assert.Equal(t, 3*time.Second, cfg.ShutdownGrace)
	assert.False(t, cfg.Confine)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

// Valores inválidos no rompen el arranque: se usa el default.
func TestLoadConfig_InvalidFallsBack(t *testing.T) {
	cfg := loadConfig(env(map[string]string{
		"PORT":         "-1",
		"BACKLOG":      "abc",
		"MAX_CONNS":    "-3",
		"IO_TIMEOUT":   "soon",
		"CONFINE_ROOT": "maybe",
		"LOG_LEVEL":    "loud",
		"DOC_ROOT":     "   ",
	}))
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5, cfg.Backlog)
	assert.Equal(t, 0, cfg.MaxConns)
	assert.Equal(t, time.Duration(0), cfg.IOTimeout)
	assert.True(t, cfg.Confine)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "./www", cfg.DocRoot)
}
