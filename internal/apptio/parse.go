// Package apptio converts appointments and agendas to and from the plain
// text line format
//
//	yyyy-mm-dd hh:mm hh:mm | description
//
// Blank lines and lines starting with '#' are skipped.
package apptio

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/nikmy/agenda/internal/agenda"
	"github.com/nikmy/agenda/internal/appt"
	"github.com/nikmy/agenda/pkg/errors"
)

const (
	tsLayout = "2006-01-02 15:04"

	commentPrefix = "#"
	maxLineSize   = 1 << 20
)

var ErrMalformed = errors.Error("expected \"yyyy-mm-dd hh:mm hh:mm | description\"")

var lineRe = regexp.MustCompile(`^\s*(\d{4}-\d{2}-\d{2})\s+(\d{1,2}:\d{2})\s+(\d{1,2}:\d{2})\s*\|\s*(.*?)\s*$`)

// ParseError reports a line that could not be turned into an appointment.
// Line is 1-based and zero when the text was parsed on its own.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("bad appointment %q: %s", e.Text, e.Err)
	}
	return fmt.Sprintf("line %d: bad appointment %q: %s", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseAppt parses a single appointment line. Both times are taken on the
// given date, in UTC. A finish not after start fails with the
// *appt.InvalidIntervalError returned by appt.New.
func ParseAppt(line string) (appt.Appt, error) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return appt.Appt{}, &ParseError{Text: strings.TrimSpace(line), Err: ErrMalformed}
	}

	date, from, to, desc := m[1], m[2], m[3], m[4]

	start, err := time.Parse(tsLayout, date+" "+from)
	if err != nil {
		return appt.Appt{}, &ParseError{Text: strings.TrimSpace(line), Err: errors.WrapFail(err, "parse start")}
	}

	finish, err := time.Parse(tsLayout, date+" "+to)
	if err != nil {
		return appt.Appt{}, &ParseError{Text: strings.TrimSpace(line), Err: errors.WrapFail(err, "parse finish")}
	}

	return appt.New(start, finish, desc)
}

// ParseAgenda parses multi-line text, appending appointments in text order.
func ParseAgenda(text string) (*agenda.Agenda, error) {
	return ReadAgenda(strings.NewReader(text))
}

// ReadAgenda reads r to the end, appending appointments in input order.
// Closing r is up to the caller.
func ReadAgenda(r io.Reader) (*agenda.Agenda, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	ag := agenda.New()

	lineNo := 0
	for sc.Scan() {
		lineNo++

		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, commentPrefix) {
			continue
		}

		a, err := ParseAppt(line)
		if err != nil {
			return nil, withLine(err, lineNo, trimmed)
		}

		ag.Append(a)
	}

	if err := sc.Err(); err != nil {
		return nil, errors.WrapFail(err, "read agenda")
	}

	return ag, nil
}

func withLine(err error, lineNo int, text string) error {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		parseErr.Line = lineNo
		return parseErr
	}

	return &ParseError{Line: lineNo, Text: text, Err: err}
}

// WriteAgenda writes one appointment per line in current order.
func WriteAgenda(w io.Writer, ag *agenda.Agenda) error {
	bw := bufio.NewWriter(w)
	for _, a := range ag.Items() {
		_, err := bw.WriteString(a.String() + "\n")
		if err != nil {
			return errors.WrapFail(err, "write appointment")
		}
	}

	return errors.WrapFail(bw.Flush(), "flush agenda")
}
