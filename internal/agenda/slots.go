package agenda

import (
	"slices"
	"sort"

	"github.com/nikmy/agenda/internal/appt"
)

// Fits finds the position of item in a sorted, conflict-free agenda and
// reports whether it can be placed there without overlapping its neighbours.
func (a *Agenda) Fits(item appt.Appt) (int, bool) {
	scheduled := a.elements
	n := len(scheduled)

	// find position for beginning to insert
	idx := sort.Search(n, func(i int) bool {
		return !scheduled[i].Start().Before(item.Start())
	})

	if idx < n && !item.Before(scheduled[idx]) {
		return idx, false
	}

	// check overlap with previous one
	if idx > 0 && !scheduled[idx-1].Before(item) {
		return idx, false
	}

	return idx, true
}

// Insert places item into a conflict-free agenda if it fits, keeping the
// agenda sorted and conflict-free. An unsorted agenda is sorted first.
func (a *Agenda) Insert(item appt.Appt) bool {
	if !a.sorted() {
		a.Sort()
	}

	idx, ok := a.Fits(item)
	if !ok {
		return false
	}

	a.elements = slices.Insert(a.elements, idx, item)
	return true
}

// Remove deletes the first appointment covering the same period as item.
func (a *Agenda) Remove(item appt.Appt) bool {
	idx := slices.IndexFunc(a.elements, item.Equal)
	if idx < 0 {
		return false
	}

	a.elements = slices.Delete(a.elements, idx, idx+1)
	return true
}
