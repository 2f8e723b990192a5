package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// newestFirst ordena ids por orden de inserción descendente.
func newestFirst(st *state, ids []string) {
	sort.Slice(ids, func(i, j int) bool { return st.order[ids[i]] > st.order[ids[j]] })
}

// byDateDesc ordena ids por fecha del documento descendente; empata por inserción.
func byDateDesc(st *state, ids []string, date func(id string) time.Time) {
	sort.Slice(ids, func(i, j int) bool {
		di, dj := date(ids[i]), date(ids[j])
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return st.order[ids[i]] > st.order[ids[j]]
	})
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	return to == nil || !t.After(*to)
}

func window[T any](items []T, p repository.Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return items[p.Offset:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
