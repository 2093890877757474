package appt

import (
	"fmt"
	"time"
)

// InvalidIntervalError is returned by New when finish is not after start.
type InvalidIntervalError struct {
	Start  time.Time
	Finish time.Time
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf(
		"invalid appointment: finish %s must be after start %s",
		e.Finish.Format(time.DateTime), e.Start.Format(time.DateTime),
	)
}

// NoOverlapError is returned by Intersect for appointments that do not overlap.
type NoOverlapError struct {
	A, B Appt
}

func (e *NoOverlapError) Error() string {
	return fmt.Sprintf("appointments do not overlap: %q and %q", e.A, e.B)
}
