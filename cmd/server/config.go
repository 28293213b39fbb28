package main

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// config son las entradas fijas del proceso, leídas del entorno al arrancar.
type config struct {
	Port          int
	DocRoot       string
	Backlog       int
	MaxConns      int
	IOTimeout     time.Duration
	ShutdownGrace time.Duration
	Confine       bool
	MetricsAddr   string
	LogLevel      slog.Level
}

// loadConfig lee la configuración con getenv (os.Getenv en producción).
// Un valor ausente o inválido deja el valor por defecto.
func loadConfig(getenv func(string) string) config {
	return config{
		Port:          getenvInt(getenv, "PORT", 8080),
		DocRoot:       getenvStr(getenv, "DOC_ROOT", "./www"),
		Backlog:       getenvInt(getenv, "BACKLOG", 5),
		MaxConns:      getenvNonNeg(getenv, "MAX_CONNS", 0),
		IOTimeout:     getenvDuration(getenv, "IO_TIMEOUT", 0),
		ShutdownGrace: getenvDuration(getenv, "SHUTDOWN_GRACE", 0),
		Confine:       getenvBool(getenv, "CONFINE_ROOT", true),
		MetricsAddr:   getenvStr(getenv, "METRICS_ADDR", ""),
		LogLevel:      getenvLevel(getenv, "LOG_LEVEL", slog.LevelInfo),
	}
}

func getenvStr(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(getenv func(string) string, key string, def int) int {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getenvNonNeg(getenv func(string) string, key string, def int) int {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// getenvDuration acepta "1500ms", "2s", ... o un entero en segundos.
func getenvDuration(getenv func(string) string, key string, def time.Duration) time.Duration {
	v := getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func getenvBool(getenv func(string) string, key string, def bool) bool {
	if v := getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvLevel(getenv func(string) string, key string, def slog.Level) slog.Level {
	if v := getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return def
}
