// Package bootstrap initializes logging configuration before other packages.
//
// It must be blank-imported first in main.go so its init() runs before any
// package that logs through zerolog. The log level comes from the
// LAUNCHER_LOG_LEVEL environment variable and defaults to info.
package bootstrap

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	level := os.Getenv("LAUNCHER_LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// The launcher is an interactive console tool, not a log-shipping
	// service, so use human-readable output.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
