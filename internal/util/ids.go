package util

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
)

var connSeq atomic.Uint64

// NewConnID devuelve "<secuencia>-<6 bytes hex>" para correlacionar las
// líneas de log de una misma conexión. La secuencia refleja el orden de
// aceptación; el sufijo aleatorio distingue procesos distintos.
func NewConnID() string {
	var b [6]byte
	_, _ = rand.Read(b[:])
	return strconv.FormatUint(connSeq.Add(1), 10) + "-" + hex.EncodeToString(b[:])
}
