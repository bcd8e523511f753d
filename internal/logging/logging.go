// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Output targets.
const (
	OutputStderr  = "stderr"
	OutputStdout  = "stdout"
	OutputDiscard = "discard"
)

// Config controls log level, format and destination.
type Config struct {
	Level  string `mapstructure:"level" json:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" json:"format" validate:"omitempty,oneof=text json"`

	// Output is stderr, stdout or discard. It is ignored when File is set.
	Output string `mapstructure:"output" json:"output" validate:"omitempty,oneof=stderr stdout discard"`

	// File, when set, appends log lines to that path.
	File string `mapstructure:"file" json:"file"`
}

// DefaultConfig logs info and above as text to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "text", Output: OutputStderr}
}

// New builds a logger from cfg. The returned close function releases the
// log file, if any, and is never nil.
func New(cfg Config) (*logrus.Logger, func() error, error) {
	noop := func() error { return nil }

	log := logrus.New()

	level := logrus.InfoLevel
	if cfg.Level != "" {
		l, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, noop, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	log.SetLevel(level)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
		return log, f.Close, nil
	}

	switch cfg.Output {
	case OutputStdout:
		log.SetOutput(os.Stdout)
	case OutputDiscard:
		log.SetOutput(io.Discard)
	default:
		log.SetOutput(os.Stderr)
	}
	return log, noop, nil
}

// Discard returns an entry that drops everything. Handy as a default for
// optional loggers.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
