// Package refresh keeps on-screen data fresh with a repeating timer that is
// owned by exactly one Handle.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TickFunc fetches fresh data and applies it.
type TickFunc func(ctx context.Context) error

var ErrInvalidInterval = errors.New("refresh interval must be positive")

// TickError wraps a failed tick before it is handed to the failure callback.
type TickError struct {
	Handle string
	Err    error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("refresh %s: tick failed: %v", e.Handle, e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}

type Option func(*Handle)

func WithLogger(logger *logrus.Logger) Option {
	return func(h *Handle) {
		h.logger = logger
	}
}

// WithFailureHandler registers the callback that receives every failed tick
// exactly once. The schedule keeps running regardless.
func WithFailureHandler(fn func(error)) Option {
	return func(h *Handle) {
		h.onError = fn
	}
}

// Handle owns at most one periodic timer. The zero value is not usable; create
// one with New or Start.
type Handle struct {
	id      string
	logger  *logrus.Logger
	onError func(error)

	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}
}

func New(opts ...Option) *Handle {
	h := &Handle{id: uuid.NewString()}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logrus.New()
		h.logger.SetOutput(io.Discard)
	}
	return h
}

// Start creates a Handle and starts its timer.
func Start(ctx context.Context, interval time.Duration, tick TickFunc, opts ...Option) (*Handle, error) {
	h := New(opts...)
	if err := h.Start(ctx, interval, tick); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handle) ID() string {
	return h.id
}

// Start begins firing tick every interval. A timer that is already running is
// stopped first, so a Handle never drives two timers.
func (h *Handle) Start(ctx context.Context, interval time.Duration, tick TickFunc) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopLocked()

	stopCh := make(chan struct{})
	done := make(chan struct{})
	h.stopCh = stopCh
	h.done = done

	go h.loop(ctx, interval, tick, stopCh, done)

	h.logger.WithFields(logrus.Fields{
		"handle":   h.id,
		"interval": interval.String(),
	}).Debug("Refresh timer started")
	return nil
}

// Stop cancels future ticks. It is safe to call any number of times. A tick
// that is already in flight is not interrupted.
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopLocked() {
		h.logger.WithField("handle", h.id).Debug("Refresh timer stopped")
	}
}

// TriggerNow dispatches a single out-of-cadence tick. Failures take the same
// path as periodic ticks.
func (h *Handle) TriggerNow(ctx context.Context, tick TickFunc) {
	go h.fire(ctx, tick)
}

// Running reports whether a timer is active.
func (h *Handle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.done == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *Handle) stopLocked() bool {
	if h.stopCh == nil {
		return false
	}
	close(h.stopCh)
	<-h.done
	h.stopCh = nil
	h.done = nil
	return true
}

func (h *Handle) loop(ctx context.Context, interval time.Duration, tick TickFunc, stopCh, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			select {
			case <-stopCh:
				return
			default:
			}
			go h.fire(ctx, tick)
		}
	}
}

func (h *Handle) fire(ctx context.Context, tick TickFunc) {
	err := h.call(ctx, tick)
	if err == nil {
		return
	}

	tickErr := &TickError{Handle: h.id, Err: err}
	h.logger.WithError(err).WithField("handle", h.id).Warn("Refresh tick failed")
	if h.onError != nil {
		h.onError(tickErr)
	}
}

func (h *Handle) call(ctx context.Context, tick TickFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panicked: %v", r)
		}
	}()
	return tick(ctx)
}
