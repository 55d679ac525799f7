package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Release mode uses plain JSON
// output; everything else gets the human-readable console writer.
func Init(ginMode string) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if ginMode != "release" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
