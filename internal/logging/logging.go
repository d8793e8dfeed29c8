// Package logging configures the global zerolog logger for the CLI.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup directs logs to stderr in console format. Verbose enables debug
// level; otherwise only warnings and errors surface, keeping stdout clean
// for the generated message.
func Setup(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}
