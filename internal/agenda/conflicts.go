package agenda

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nikmy/agenda/internal/appt"
)

// ctxCheckEvery is how many outer sweep steps run between context checks.
const ctxCheckEvery = 1024

// Conflicts returns a new agenda holding the intersection of every
// overlapping pair of appointments.
//
// Side effect: the receiver is sorted by start time first. Copy it before
// calling if the original order matters.
//
// Conflicts are listed in discovery order: by the start of the earlier
// member of each pair, then by the later member. Sort the result for a
// canonical order.
func (a *Agenda) Conflicts() *Agenda {
	a.Sort()
	found, _ := sweep(context.Background(), a.elements, 0, len(a.elements))
	return &Agenda{elements: found}
}

// Unconflicted reports whether no two appointments overlap. Like Conflicts,
// it sorts the receiver. It stops at the first overlap found.
func (a *Agenda) Unconflicted() bool {
	a.Sort()

	// On sorted input any overlapping pair (i, j) implies that i and i+1
	// overlap too, so adjacent pairs are enough.
	for i := 1; i < len(a.elements); i++ {
		if a.elements[i-1].Overlaps(a.elements[i]) {
			return false
		}
	}

	return true
}

// ConflictsParallel is Conflicts with the outer sweep split into contiguous
// index ranges handled by up to workers goroutines. Partial results are
// concatenated in range order, so the output equals that of Conflicts.
func (a *Agenda) ConflictsParallel(ctx context.Context, workers int) (*Agenda, error) {
	a.Sort()

	n := len(a.elements)
	if workers <= 1 || n < 2 {
		found, err := sweep(ctx, a.elements, 0, n)
		if err != nil {
			return nil, err
		}
		return &Agenda{elements: found}, nil
	}

	chunk := (n + workers - 1) / workers
	parts := make([][]appt.Appt, (n+chunk-1)/chunk)

	g, gctx := errgroup.WithContext(ctx)
	for k := range parts {
		from := k * chunk
		to := min(from+chunk, n)

		g.Go(func() error {
			found, err := sweep(gctx, a.elements, from, to)
			parts[k] = found
			return err
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}

	merged := make([]appt.Appt, 0, total)
	for _, p := range parts {
		merged = append(merged, p...)
	}

	return &Agenda{elements: merged}, nil
}

// sweep collects the conflicts of sorted[i] with every later element, for i
// in [from, to). sorted must be ordered by start.
func sweep(ctx context.Context, sorted []appt.Appt, from, to int) ([]appt.Appt, error) {
	var found []appt.Appt

	for i := from; i < to; i++ {
		if (i-from)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cur := sorted[i]
		for j := i + 1; j < len(sorted); j++ {
			// sorted[j] starts no earlier than cur, so the only way for them
			// not to overlap is cur finishing by sorted[j].Start(). Every
			// later element starts even later.
			shared, ok := cur.Overlap(sorted[j])
			if !ok {
				break
			}
			found = append(found, shared)
		}
	}

	return found, nil
}
