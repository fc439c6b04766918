// Package textmatch búsqueda de subcadenas sin distinguir mayúsculas (Unicode).
package textmatch

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold normaliza s para comparación sin mayúsculas (incluye ß, Σ, etc.).
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold indica si alguno de los campos contiene query sin distinguir mayúsculas.
// query vacío coincide con todo.
func ContainsFold(query string, fields ...string) bool {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), q) {
			return true
		}
	}
	return false
}
