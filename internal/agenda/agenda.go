// Package agenda provides Agenda, an ordered collection of appointments with
// sweep-line conflict detection.
package agenda

import (
	"slices"
	"strings"

	"github.com/nikmy/agenda/internal/appt"
)

// Agenda is an ordered, mutable sequence of appointments. Duplicates and
// overlapping appointments are allowed. The zero value is an empty agenda.
type Agenda struct {
	elements []appt.Appt
}

func New(items ...appt.Appt) *Agenda {
	return &Agenda{elements: slices.Clone(items)}
}

// Append adds item to the end of the agenda without reordering.
func (a *Agenda) Append(item appt.Appt) {
	a.elements = append(a.elements, item)
}

func (a *Agenda) Len() int {
	return len(a.elements)
}

func (a *Agenda) Empty() bool {
	return len(a.elements) == 0
}

func (a *Agenda) At(i int) appt.Appt {
	return a.elements[i]
}

// Items returns a copy of the appointments in current order.
func (a *Agenda) Items() []appt.Appt {
	return slices.Clone(a.elements)
}

// Sort orders the agenda by start time in place. Appointments starting at the
// same time keep their relative order.
func (a *Agenda) Sort() {
	slices.SortStableFunc(a.elements, byStart)
}

func byStart(x, y appt.Appt) int {
	return x.Start().Compare(y.Start())
}

func (a *Agenda) sorted() bool {
	return slices.IsSortedFunc(a.elements, byStart)
}

// Equal compares agendas element by element in current order.
// Descriptions are ignored, as in appt.Appt.Equal.
func (a *Agenda) Equal(other *Agenda) bool {
	return slices.EqualFunc(a.elements, other.elements, appt.Appt.Equal)
}

// String renders one appointment per line in current order.
func (a *Agenda) String() string {
	lines := make([]string, 0, len(a.elements))
	for _, e := range a.elements {
		lines = append(lines, e.String())
	}

	return strings.Join(lines, "\n")
}
