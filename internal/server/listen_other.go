//go:build !linux && !darwin

package server

import (
	"fmt"
	"net"
)

// Listen abre un listener TCP en todas las interfaces. En esta plataforma
// el backlog lo decide el sistema y el parámetro se ignora.
func Listen(port, _ int) (net.Listener, error) {
	ln, err := net.Listen("tcp4", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen :%d: %w", port, err)
	}
	return ln, nil
}
