package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nikmy/agenda/internal/agenda"
	"github.com/nikmy/agenda/internal/appt"
	"github.com/nikmy/agenda/internal/apptio"
	"github.com/nikmy/agenda/internal/checker"
	"github.com/nikmy/agenda/pkg/errors"
	"github.com/nikmy/agenda/pkg/logger"
)

const conflictsHeader = "X-Conflicts"

func NewServer(cfg Config, log logger.Logger, check checker.API) Server {
	serveLog := log.With("api_http_server")

	fiberCfg := fiber.Config{
		ReadTimeout:             cfg.HTTP.ReadTimeout,
		WriteTimeout:            cfg.HTTP.WriteTimeout,
		IdleTimeout:             cfg.HTTP.IdleTimeout,
		BodyLimit:               cfg.HTTP.BodyLimit,
		DisableStartupMessage:   true,
		EnableTrustedProxyCheck: true,
		ProxyHeader:             cfg.Proxy.Header,
		TrustedProxies:          cfg.Proxy.Trusted,
		RequestMethods:          []string{fiber.MethodGet, fiber.MethodPost},
	}

	fiberCfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(errorBody(fiberErr.Message))
		}

		serveLog.Error(errors.WrapFail(err, "handle http request"))
		return c.Status(http.StatusInternalServerError).Send(nil)
	}

	s := &server{
		check: check,
		http:  fiber.New(fiberCfg),
		addr:  cfg.HTTP.Addr,
		log:   serveLog,
	}

	s.setupRoutes()

	return s
}

type server struct {
	check checker.API
	http  *fiber.App
	addr  string
	log   logger.Logger
}

func (s *server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.http.Listen(s.addr) }()

	select {
	case err := <-errCh:
		return errors.WrapFail(err, "listen "+s.addr)
	case <-ctx.Done():
		return nil
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	err := s.http.ShutdownWithContext(ctx)
	return errors.WrapFail(err, "shutdown http server")
}

func (s *server) setupRoutes() {
	s.http.Use(recover.New())

	s.http.Post("/conflicts", s.handleConflicts)
	s.http.Post("/sort", s.handleSort)
	s.http.Post("/check", s.handleCheck)
}

func (s *server) handleConflicts(c *fiber.Ctx) error {
	report, err := s.check.Check(c.UserContext(), bytes.NewReader(c.Body()))
	if err != nil {
		return s.sendCheckError(c, err)
	}

	c.Set(conflictsHeader, strconv.Itoa(report.Conflicts.Len()))

	if wantsJSON(c) {
		return c.Status(http.StatusOK).JSON(conflictsBody{
			Count:     report.Conflicts.Len(),
			Conflicts: toJSON(report.Conflicts),
		})
	}

	return s.sendAgenda(c, report.Conflicts)
}

func (s *server) handleSort(c *fiber.Ctx) error {
	sorted, err := s.check.Sort(c.UserContext(), bytes.NewReader(c.Body()))
	if err != nil {
		return s.sendCheckError(c, err)
	}

	if wantsJSON(c) {
		return c.Status(http.StatusOK).JSON(toJSON(sorted))
	}

	return s.sendAgenda(c, sorted)
}

func (s *server) handleCheck(c *fiber.Ctx) error {
	ok, err := s.check.Unconflicted(c.UserContext(), bytes.NewReader(c.Body()))
	if err != nil {
		return s.sendCheckError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]bool{"unconflicted": ok})
}

func (s *server) sendAgenda(c *fiber.Ctx, ag *agenda.Agenda) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

	body := ag.String()
	if body != "" {
		body += "\n"
	}
	return c.Status(http.StatusOK).SendString(body)
}

// sendCheckError answers client mistakes itself and leaves the rest
// to the error handler.
func (s *server) sendCheckError(c *fiber.Ctx, err error) error {
	var (
		parseErr   *apptio.ParseError
		invalidErr *appt.InvalidIntervalError
	)

	switch {
	case errors.As(err, &parseErr), errors.As(err, &invalidErr):
		s.log.Debug(err)
		return s.sendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, checker.ErrTooLarge):
		s.log.Debug(err)
		return s.sendError(c, http.StatusRequestEntityTooLarge, err.Error())
	default:
		return err
	}
}

func (s *server) sendError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorBody(msg))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"status": "ERROR", "message": msg}
}

func wantsJSON(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMETextPlain, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

type apptBody struct {
	Start       time.Time `json:"start"`
	Finish      time.Time `json:"finish"`
	Description string    `json:"description"`
}

type conflictsBody struct {
	Count     int        `json:"count"`
	Conflicts []apptBody `json:"conflicts"`
}

func toJSON(ag *agenda.Agenda) []apptBody {
	out := make([]apptBody, 0, ag.Len())
	for _, a := range ag.Items() {
		out = append(out, apptBody{
			Start:       a.Start(),
			Finish:      a.Finish(),
			Description: a.Desc(),
		})
	}
	return out
}
