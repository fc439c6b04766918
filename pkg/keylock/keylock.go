// Package keylock exclusión mutua por clave dentro del proceso.
package keylock

import "sync"

// Mutex un mutex por clave; las entradas se liberan cuando nadie las usa.
// El valor cero no es usable, construir con New.
type Mutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New construye un Mutex vacío.
func New() *Mutex {
	return &Mutex{locks: make(map[string]*entry)}
}

// Lock bloquea la clave y devuelve la función para liberarla.
func (k *Mutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Len claves con al menos un poseedor o espera.
func (k *Mutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
