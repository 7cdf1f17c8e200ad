// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blackwell-systems/catalogctl/internal/util"
)

// Init points the global logger at w with the given level and format
// ("console" or "json"). An empty level means info.
func Init(level, format string, w io.Writer) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(level); err != nil {
			return fmt.Errorf("log level %q: %w", level, err)
		}
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	switch format {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !util.IsTerminal(w)}
	case "json":
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}

// OpenFile opens path for appending, creating parent directories. The TUI
// owns the terminal, so interactive sessions log here instead of stderr.
func OpenFile(path string) (*os.File, error) {
	if err := util.EnsureParent(path); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// Discard silences the global logger.
func Discard() {
	log.Logger = zerolog.Nop()
}
