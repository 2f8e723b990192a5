package usecase

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalizeName guarda los nombres de catálogo en minúsculas y sin espacios sobrantes, para
// que "Harina" y "harina " sean el mismo registro.
func normalizeName(s string) string {
	return cases.Lower(language.Spanish).String(strings.Join(strings.Fields(s), " "))
}

func pageOf(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
