// Package logging configures zerolog output and adapts it to the
// client's Logger interface.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// Config controls log output.
type Config struct {
	// Level is one of trace, debug, info, warn, error. Default info.
	Level string `json:"level" yaml:"level"`

	// Pretty switches to human-readable console output.
	Pretty bool `json:"pretty" yaml:"pretty"`

	// Output overrides the destination, stderr by default.
	Output io.Writer `json:"-" yaml:"-"`
}

// Setup builds a zerolog logger from the config.
func Setup(config Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	if config.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Adapter exposes a zerolog logger through the stateset.Logger
// interface.
type Adapter struct {
	logger zerolog.Logger
}

// NewAdapter wraps a zerolog logger.
func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

func (a *Adapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug().Fields(fields).Msg(msg)
}

func (a *Adapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info().Fields(fields).Msg(msg)
}

func (a *Adapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn().Fields(fields).Msg(msg)
}

func (a *Adapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error().Fields(fields).Msg(msg)
}

var _ stateset.Logger = (*Adapter)(nil)
