// Package appt provides Appt, a time-bounded appointment with a description.
//
// Appointments are ordered only partially: a is Before b when a is over by the
// time b starts, and After b when a starts once b is over. Appointments that
// share any positive span of time are neither, they Overlap. An appointment
// finishing exactly when another starts does not overlap it.
package appt

import (
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// JoinSep separates the descriptions of intersected appointments.
	JoinSep = " & "
)

// Appt is an immutable appointment spanning [start, finish).
// The zero value is not a valid appointment; use New.
type Appt struct {
	start  time.Time
	finish time.Time
	desc   string
}

// New creates an appointment from start to finish. It fails with
// *InvalidIntervalError unless finish is strictly after start.
func New(start, finish time.Time, desc string) (Appt, error) {
	if !finish.After(start) {
		return Appt{}, &InvalidIntervalError{Start: start, Finish: finish}
	}

	return Appt{start: start, finish: finish, desc: desc}, nil
}

func (a Appt) Start() time.Time  { return a.start }
func (a Appt) Finish() time.Time { return a.finish }
func (a Appt) Desc() string      { return a.desc }

func (a Appt) Duration() time.Duration {
	return a.finish.Sub(a.start)
}

// Equal reports whether a and b cover the same period. Descriptions are ignored.
func (a Appt) Equal(b Appt) bool {
	return a.start.Equal(b.start) && a.finish.Equal(b.finish)
}

// Before reports whether a is over by the time b starts.
func (a Appt) Before(b Appt) bool {
	return !a.finish.After(b.start)
}

// After reports whether a starts no earlier than b finishes.
func (a Appt) After(b Appt) bool {
	return !a.start.Before(b.finish)
}

// Overlaps reports whether a and b share a non-empty period.
func (a Appt) Overlaps(b Appt) bool {
	return !(a.Before(b) || a.After(b))
}

// Overlap returns the shared period of a and b, or false if there is none.
func (a Appt) Overlap(b Appt) (Appt, bool) {
	if !a.Overlaps(b) {
		return Appt{}, false
	}

	start := a.start
	if b.start.After(start) {
		start = b.start
	}

	finish := a.finish
	if b.finish.Before(finish) {
		finish = b.finish
	}

	return Appt{start: start, finish: finish, desc: a.desc + JoinSep + b.desc}, true
}

// Intersect is like Overlap but fails with *NoOverlapError when a and b
// do not overlap.
func (a Appt) Intersect(b Appt) (Appt, error) {
	shared, ok := a.Overlap(b)
	if !ok {
		return Appt{}, &NoOverlapError{A: a, B: b}
	}

	return shared, nil
}

// String renders the appointment as "yyyy-mm-dd hh:mm hh:mm | description".
// The date is taken from the start, so the result is accurate only when
// start and finish fall on the same day.
func (a Appt) String() string {
	return a.start.Format(dateLayout) + " " +
		a.start.Format(timeLayout) + " " +
		a.finish.Format(timeLayout) + " | " + a.desc
}
