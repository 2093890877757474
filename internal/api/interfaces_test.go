package api

import (
	"github.com/nikmy/agenda/internal/checker"
	"github.com/nikmy/agenda/pkg/logger"
)

//go:generate mockgen -source=interfaces_test.go -destination=mocks_test.go -package=api

type checkerApi interface {
	checker.API
}

type loggerImpl interface {
	logger.Logger
}
