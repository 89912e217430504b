package sensors

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"go.magellan.dev/rover/logging"
)

// missWarnThreshold is how many consecutive empty polls are tolerated before each further
// miss is logged as a warning.
const missWarnThreshold = 10

// ErrClosed is returned when publishing to a closed mailbox.
var ErrClosed = errors.New("mailbox is closed")

// Latest is a single-slot mailbox. Publish overwrites whatever has not been consumed yet;
// Latest hands out the newest value once. It is safe for one producer and one consumer on
// different goroutines.
type Latest[T any] struct {
	name   string
	logger logging.Logger

	mu     sync.Mutex
	value  T
	fresh  bool
	closed bool

	published *atomic.Int64
	misses    *atomic.Int64
}

// NewLatest returns an open, empty mailbox. name is only used in log messages.
func NewLatest[T any](name string, logger logging.Logger) *Latest[T] {
	return &Latest[T]{
		name:      name,
		logger:    logger,
		published: atomic.NewInt64(0),
		misses:    atomic.NewInt64(0),
	}
}

// Publish replaces the pending value.
func (l *Latest[T]) Publish(value T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.value = value
	l.fresh = true
	l.published.Inc()
	return nil
}

// Latest returns the value published since the previous call, if any.
func (l *Latest[T]) Latest() (T, bool) {
	l.mu.Lock()
	value, fresh := l.value, l.fresh
	l.fresh = false
	l.mu.Unlock()

	if !fresh {
		var zero T
		if misses := l.misses.Inc(); misses > missWarnThreshold {
			l.logger.Warnw("no data received", "source", l.name, "attempts", misses)
		}
		return zero, false
	}
	l.misses.Store(0)
	return value, true
}

// Misses returns the number of consecutive polls that found nothing new.
func (l *Latest[T]) Misses() int64 {
	return l.misses.Load()
}

// Published returns how many values have ever been published.
func (l *Latest[T]) Published() int64 {
	return l.published.Load()
}

// Close stops the mailbox from accepting new values. A value published before Close can
// still be consumed.
func (l *Latest[T]) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
