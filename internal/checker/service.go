package checker

import (
	"context"
	"io"
	"time"

	"github.com/nikmy/agenda/internal/agenda"
	"github.com/nikmy/agenda/internal/apptio"
	"github.com/nikmy/agenda/pkg/errors"
	"github.com/nikmy/agenda/pkg/logger"
)

var ErrTooLarge = errors.Error("agenda is too large")

func New(log logger.Logger, cfg Config) API {
	return &service{
		cfg: cfg,
		log: log.With("checker"),
	}
}

type service struct {
	cfg Config
	log logger.Logger
}

func (s *service) Check(ctx context.Context, r io.Reader) (Report, error) {
	ag, err := s.read(r)
	if err != nil {
		return Report{}, err
	}

	begin := time.Now()

	conflicts, err := s.conflicts(ctx, ag)
	if err != nil {
		return Report{}, errors.WrapFail(err, "find conflicts")
	}

	s.log.Debugf(
		"checked %d appointments in %s, %d conflicts",
		ag.Len(), time.Since(begin), conflicts.Len(),
	)

	return Report{Agenda: ag, Conflicts: conflicts}, nil
}

func (s *service) Sort(_ context.Context, r io.Reader) (*agenda.Agenda, error) {
	ag, err := s.read(r)
	if err != nil {
		return nil, err
	}

	ag.Sort()
	return ag, nil
}

func (s *service) Unconflicted(_ context.Context, r io.Reader) (bool, error) {
	ag, err := s.read(r)
	if err != nil {
		return false, err
	}

	return ag.Unconflicted(), nil
}

func (s *service) read(r io.Reader) (*agenda.Agenda, error) {
	ag, err := apptio.ReadAgenda(r)
	if err != nil {
		return nil, errors.WrapFail(err, "parse agenda")
	}

	if s.cfg.MaxAppointments > 0 && ag.Len() > s.cfg.MaxAppointments {
		return nil, errors.Wrapf(ErrTooLarge, "%d appointments, at most %d allowed", ag.Len(), s.cfg.MaxAppointments)
	}

	return ag, nil
}

func (s *service) conflicts(ctx context.Context, ag *agenda.Agenda) (*agenda.Agenda, error) {
	if s.cfg.Workers > 1 && ag.Len() >= s.cfg.ParallelThreshold {
		return ag.ConflictsParallel(ctx, s.cfg.Workers)
	}

	return ag.Conflicts(), nil
}
