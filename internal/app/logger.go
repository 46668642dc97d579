package app

import (
	"io"
	"os"
	"strings"

	"sendit/internal/config"
	"sendit/internal/logx"
)

// NewLogger builds the process logger from LOG_BACKEND and LOG_LEVEL.
func NewLogger(cfg *config.Config) logx.Logger {
	return newLogger(os.Stdout, cfg.Log)
}

func newLogger(w io.Writer, cfg config.Log) logx.Logger {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "zerolog":
		return logx.NewZerologAdapter(w, cfg.Level)
	default:
		return logx.NewJSON(w, cfg.Level)
	}
}
