package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikmy/agenda/internal/api"
	"github.com/nikmy/agenda/internal/checker"
	"github.com/nikmy/agenda/internal/telegram"
	"github.com/nikmy/agenda/pkg/errors"
	"github.com/nikmy/agenda/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := loadConfig()
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "load config"))
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "init logger"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)
	defer cancel()

	check := checker.New(log, cfg.Checker)
	server := api.NewServer(cfg.API, log, check)

	var bot *telegram.Bot
	if cfg.Telegram.Enabled {
		bot, err = telegram.New(log, cfg.Telegram, check)
		if err != nil {
			log.Panic(errors.WrapFail(err, "initialize bot service"))
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Serve(gctx)
	})

	if bot != nil {
		err = bot.Run(gctx)
		if err != nil {
			log.Panic(errors.WrapFail(err, "run bot"))
		}
		log.Infof("bot has been started")
	}

	log.Infof("serving http on %s", cfg.API.HTTP.Addr)

	err = g.Wait()
	if err != nil {
		log.Error(err)
	}

	log.Infof("graceful shutdown...")

	if bot != nil {
		bot.Stop()
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error(err)
	}

	log.Infof("shutdown complete")
}
