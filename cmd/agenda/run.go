package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nikmy/agenda/internal/apptio"
	"github.com/nikmy/agenda/internal/checker"
	"github.com/nikmy/agenda/internal/watch"
	"github.com/nikmy/agenda/pkg/environment"
	"github.com/nikmy/agenda/pkg/errors"
	"github.com/nikmy/agenda/pkg/logger"
)

const (
	exitOK        = 0
	exitConflicts = 1
	exitError     = 2
)

const (
	stdinName         = "-"
	parallelThreshold = 4096
)

type options struct {
	env     environment.Env
	sort    bool
	workers int
	watch   bool
	files   []string
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("agenda", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "usage: agenda [-env dev|prod] [-sort] [-workers N] [-watch] [file ...]")
		fs.PrintDefaults()
	}

	rawEnv := fs.String("env", "prod", "environment (dev, prod, test)")
	sorted := fs.Bool("sort", false, "print the agenda sorted by start time")
	workers := fs.Int("workers", 1, "goroutines sweeping large agendas")
	watching := fs.Bool("watch", false, "re-check the file on every change")

	err := fs.Parse(args)
	if err != nil {
		return options{}, err
	}

	opts := options{
		env:     environment.FromString(*rawEnv),
		sort:    *sorted,
		workers: *workers,
		watch:   *watching,
		files:   fs.Args(),
	}

	if opts.env == environment.Unknown {
		return options{}, errors.Errorf("unknown environment %q", *rawEnv)
	}
	if opts.workers < 1 {
		return options{}, errors.Errorf("workers must be positive, got %d", opts.workers)
	}
	if len(opts.files) == 0 {
		opts.files = []string{stdinName}
	}
	if opts.watch && (len(opts.files) != 1 || opts.files[0] == stdinName) {
		return options{}, errors.Error("-watch needs exactly one file")
	}

	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "agenda:", err)
		return exitError
	}

	log, err := logger.New(opts.env)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "agenda:", errors.WrapFail(err, "init logger"))
		return exitError
	}

	c := &cli{
		opts:   opts,
		check:  checker.New(log, checker.Config{Workers: opts.workers, ParallelThreshold: parallelThreshold}),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	if opts.watch {
		return c.watch(ctx, log)
	}

	code := exitOK
	for _, name := range opts.files {
		code = max(code, c.checkFile(ctx, name))
	}
	return code
}

type cli struct {
	opts  options
	check checker.API

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *cli) watch(ctx context.Context, log logger.Logger) int {
	name := c.opts.files[0]

	w := watch.New(log, name, func(ctx context.Context) error {
		_, _ = fmt.Fprintf(c.stdout, "==> %s <==\n", name)
		c.checkFile(ctx, name)
		return nil
	})

	err := w.Run(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(c.stderr, "agenda:", err)
		return exitError
	}
	return exitOK
}

func (c *cli) checkFile(ctx context.Context, name string) int {
	r := c.stdin
	if name != stdinName {
		f, err := os.Open(name)
		if err != nil {
			_, _ = fmt.Fprintln(c.stderr, "agenda:", errors.WrapFail(err, "open agenda"))
			return exitError
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	report, err := c.check.Check(ctx, r)
	if err != nil {
		_, _ = fmt.Fprintf(c.stderr, "agenda: %s: %s\n", name, err)
		return exitError
	}

	err = c.print(name, report)
	if err != nil {
		_, _ = fmt.Fprintln(c.stderr, "agenda:", err)
		return exitError
	}

	if !report.OK() {
		return exitConflicts
	}
	return exitOK
}

func (c *cli) print(name string, report checker.Report) error {
	if len(c.opts.files) > 1 {
		_, err := fmt.Fprintf(c.stdout, "==> %s <==\n", name)
		if err != nil {
			return errors.WrapFail(err, "write header")
		}
	}

	if c.opts.sort {
		err := apptio.WriteAgenda(c.stdout, report.Agenda)
		if err != nil {
			return err
		}
	}

	if report.OK() {
		_, err := fmt.Fprintln(c.stdout, "no conflicts")
		return errors.WrapFail(err, "write report")
	}

	_, err := fmt.Fprintf(c.stdout, "conflicts: %d\n", report.Conflicts.Len())
	if err != nil {
		return errors.WrapFail(err, "write report")
	}
	return apptio.WriteAgenda(c.stdout, report.Conflicts)
}
