// Package search normaliza texto libre para búsquedas insensibles a mayúsculas y acentos.
package search

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize quita acentos, pliega mayúsculas y colapsa espacios: "  Bomba  de AGUA Ñ " -> "bomba de agua n".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = cases.Fold().String(out)
	return strings.Join(strings.Fields(out), " ")
}

// ID interpreta el término como id numérico.
func ID(term string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(term), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Match indica si el término (ya normalizado) aparece en alguno de los campos o coincide con alguno
// de los ids. Término vacío coincide con todo.
func Match(term string, fields []string, ids ...int64) bool {
	if term == "" {
		return true
	}
	if id, ok := ID(term); ok {
		for _, v := range ids {
			if v == id {
				return true
			}
		}
	}
	for _, f := range fields {
		if strings.Contains(Normalize(f), term) {
			return true
		}
	}
	return false
}
