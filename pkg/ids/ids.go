// Package ids genera identificadores con prefijo legible + ULID (ordenables por tiempo y sin colisiones).
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

// Prefijos de las colecciones persistidas.
const (
	PrefixInventoryLog   = "LOG"
	PrefixStockReception = "SR"
	PrefixPickPack       = "PP"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New devuelve "<prefix>-<ULID>". Dentro del mismo milisegundo los ULID son monótonos.
func New(prefix string) string {
	return prefix + "-" + NewULID(time.Now())
}

// NewULID genera un ULID para el instante t. MonotonicEntropy no es seguro entre goroutines, por eso el mutex.
func NewULID(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		// Desbordamiento de la entropía monótona en el mismo ms: reiniciar con entropía nueva.
		entropy = ulid.Monotonic(rand.Reader, 0)
		id = ulid.MustNew(ulid.Timestamp(t), entropy)
	}
	return id.String()
}
