package watch

import (
	"time"

	"github.com/rs/zerolog"
)

// Option applies a configuration option to a Collection.
type Option func(*settings)

type settings struct {
	interval    time.Duration
	pollTimeout time.Duration
	buffer      int
	logger      zerolog.Logger
}

// WithInterval sets the background polling interval.
func WithInterval(interval time.Duration) Option {
	return func(s *settings) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithPollTimeout bounds the duration of a single background fetch.
func WithPollTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		if timeout > 0 {
			s.pollTimeout = timeout
		}
	}
}

// WithBuffer sets the per-subscriber channel buffer. A subscriber that falls
// further behind than the buffer drops changes rather than stalling the poller.
func WithBuffer(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// WithLogger sets the logger used for poll diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}
