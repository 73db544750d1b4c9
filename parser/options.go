package parser

import (
	"fmt"
	"log/slog"
)

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// ParserConfig holds parser configuration
type ParserConfig struct {
	logger        *slog.Logger
	maxErrors     int // 0 => no limit
	maxInputBytes int // 0 => no limit
}

// WithLogger routes debug records about error recovery to l.
func WithLogger(l *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxErrors stops parsing once n diagnostics have been collected.
func WithMaxErrors(n int) ParserOpt {
	return func(c *ParserConfig) {
		c.maxErrors = n
	}
}

// WithMaxInputBytes rejects sources longer than n bytes with ErrInputTooLarge.
func WithMaxInputBytes(n int) ParserOpt {
	return func(c *ParserConfig) {
		c.maxInputBytes = n
	}
}

func newParserConfig(opts ...ParserOpt) *ParserConfig {
	config := &ParserConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

func (c *ParserConfig) checkInputSize(src []byte) error {
	if c.maxInputBytes > 0 && len(src) > c.maxInputBytes {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrInputTooLarge, len(src), c.maxInputBytes)
	}
	return nil
}
