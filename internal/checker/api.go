package checker

import (
	"context"
	"io"

	"github.com/nikmy/agenda/internal/agenda"
)

type API interface {
	// Check reads an agenda and reports its conflicts. The returned agenda
	// is sorted by start time.
	Check(ctx context.Context, r io.Reader) (Report, error)

	Sort(ctx context.Context, r io.Reader) (*agenda.Agenda, error)

	// Unconflicted reads an agenda and reports whether it has no conflicts.
	Unconflicted(ctx context.Context, r io.Reader) (bool, error)
}

type Report struct {
	Agenda    *agenda.Agenda
	Conflicts *agenda.Agenda
}

func (r Report) OK() bool {
	return r.Conflicts.Empty()
}
