package telegram

import (
	"strconv"
	"strings"

	"github.com/vitaliy-ukiru/fsm-telebot"
	"github.com/vitaliy-ukiru/fsm-telebot/storages/memory"
	"gopkg.in/telebot.v3"

	"github.com/nikmy/agenda/internal/appt"
	"github.com/nikmy/agenda/internal/apptio"
	"github.com/nikmy/agenda/internal/checker"
	"github.com/nikmy/agenda/pkg/errors"
)

const (
	initialState = fsm.DefaultState

	conflictsReadAgendaState fsm.State = "conflictsReadAgenda"
	sortReadAgendaState      fsm.State = "sortReadAgenda"
)

// telegram rejects longer messages
const maxMessageLen = 4096

const usage = "" +
	"Available commands:\n" +
	"/conflicts - find overlapping appointments in an agenda\n" +
	"/sort - sort an agenda by start time\n\n" +
	"Agenda format, one appointment per line:\n" +
	"2018-01-01 09:15 10:30 | description"

func (b *Bot) setupHandlers() {
	manager := fsm.NewManager(
		b.bot,
		nil,
		memory.NewStorage(),
		nil,
	)

	manager.Bind(telebot.OnText, initialState, b.start)
	manager.Bind("/start", fsm.AnyState, b.start)

	manager.Bind("/conflicts", fsm.AnyState, b.startConflicts)
	manager.Bind(telebot.OnText, conflictsReadAgendaState, b.conflicts)

	manager.Bind("/sort", fsm.AnyState, b.startSort)
	manager.Bind(telebot.OnText, sortReadAgendaState, b.sort)
}

func (b *Bot) setState(s fsm.Context, target fsm.State) {
	err := s.Set(target)
	if err != nil {
		b.log.Warn(errors.WrapFailf(err, "set state to \"%s\"", target))
	}
}

func (b *Bot) final(c telebot.Context, s fsm.Context, msg string, opts ...any) error {
	b.setState(s, initialState)
	return c.Send(truncate(msg), opts...)
}

func (b *Bot) fail(c telebot.Context, s fsm.Context, err error) error {
	b.log.Error(err)
	return b.final(c, s, "Something went wrong")
}

func (b *Bot) start(c telebot.Context, s fsm.Context) error {
	b.setState(s, initialState)
	return c.Send(usage)
}

func (b *Bot) startConflicts(c telebot.Context, s fsm.Context) error {
	b.setState(s, conflictsReadAgendaState)
	return c.Send("Send me the agenda")
}

func (b *Bot) conflicts(c telebot.Context, s fsm.Context) error {
	report, err := b.check.Check(b.ctx, strings.NewReader(c.Text()))
	if err != nil {
		return b.checkFailed(c, s, err, "check agenda")
	}

	if report.OK() {
		return b.final(c, s, "No conflicts")
	}

	return b.final(c, s, "Conflicts found: "+strconv.Itoa(report.Conflicts.Len())+"\n"+report.Conflicts.String())
}

func (b *Bot) startSort(c telebot.Context, s fsm.Context) error {
	b.setState(s, sortReadAgendaState)
	return c.Send("Send me the agenda")
}

func (b *Bot) sort(c telebot.Context, s fsm.Context) error {
	sorted, err := b.check.Sort(b.ctx, strings.NewReader(c.Text()))
	if err != nil {
		return b.checkFailed(c, s, err, "sort agenda")
	}

	if sorted.Empty() {
		return b.final(c, s, "Agenda is empty")
	}

	return b.final(c, s, sorted.String())
}

func (b *Bot) checkFailed(c telebot.Context, s fsm.Context, err error, what string) error {
	var (
		parseErr   *apptio.ParseError
		invalidErr *appt.InvalidIntervalError
	)

	switch {
	case errors.As(err, &parseErr), errors.As(err, &invalidErr):
		return b.final(c, s, "Bad agenda: "+err.Error())
	case errors.Is(err, checker.ErrTooLarge):
		return b.final(c, s, "Agenda is too large")
	default:
		return b.fail(c, s, errors.WrapFail(err, what))
	}
}

func truncate(msg string) string {
	if len(msg) <= maxMessageLen {
		return msg
	}

	const ellipsis = "\n…"
	cut := maxMessageLen - len(ellipsis)
	if i := strings.LastIndexByte(msg[:cut], '\n'); i > 0 {
		cut = i
	}
	return msg[:cut] + ellipsis
}
