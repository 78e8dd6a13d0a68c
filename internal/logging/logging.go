package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// New returns a slog logger that writes through a charmbracelet handler.
func New(w io.Writer, level string) (*slog.Logger, error) {
	parsed := charmlog.WarnLevel
	if trimmed := strings.TrimSpace(level); trimmed != "" {
		var err error
		parsed, err = charmlog.ParseLevel(strings.ToLower(trimmed))
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           parsed,
		Prefix:          "opsc",
		ReportTimestamp: true,
	})
	return slog.New(handler), nil
}
