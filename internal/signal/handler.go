// Package signal provides Ctrl+C handling for agenda runs.
//
// The first SIGINT or SIGTERM cancels the handler context. The task engine
// checks that context between tasks, so the task in flight finishes and
// its outcome is recorded before the run stops. A second signal means the
// user does not want to wait: the force hook runs, which by default exits
// the process with status 130.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ExitCodeInterrupted is the conventional exit status after SIGINT.
const ExitCodeInterrupted = 130

// Option configures a Handler.
type Option func(*Handler)

// WithNotice sets a hook run once on the first signal, typically to tell
// the user the run will stop after the current task.
func WithNotice(fn func()) Option {
	return func(h *Handler) {
		h.notice = fn
	}
}

// WithForce replaces the hook run on the second signal.
func WithForce(fn func()) Option {
	return func(h *Handler) {
		h.force = fn
	}
}

// Handler turns interrupt signals into context cancellation.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	sigChan     chan os.Signal

	notice func()
	force  func()

	mu       sync.Mutex
	received int
	stopOnce sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM. Always call Stop when
// the guarded work is over.
//
//	h := signal.NewHandler(ctx, signal.WithNotice(func() { out.Warning("stopping after this task") }))
//	defer h.Stop()
//	summary, err := engine.Run(h.Context(), store, tools)
func NewHandler(parent context.Context, opts ...Option) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		// Buffered so signal.Notify never drops a signal.
		sigChan: make(chan os.Signal, 1),
		force:   func() { os.Exit(ExitCodeInterrupted) },
	}
	for _, opt := range opts {
		opt(h)
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()
	return h
}

// Context is canceled on the first signal, on Stop, or with its parent.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted is closed on the first signal.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// WasInterrupted reports whether at least one signal arrived.
func (h *Handler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received > 0
}

// Stop stops listening and cancels the context. It is safe to call twice.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) handleSignal() {
	h.mu.Lock()
	h.received++
	n := h.received
	h.mu.Unlock()

	switch n {
	case 1:
		h.cancel()
		close(h.interrupted)
		if h.notice != nil {
			h.notice()
		}
	case 2:
		if h.force != nil {
			h.force()
		}
	}
}

// listen keeps draining signals until Stop so repeated Ctrl+C never blocks
// signal delivery.
func (h *Handler) listen() {
	for {
		select {
		case <-h.done:
			return
		case <-h.sigChan:
			h.handleSignal()
		}
	}
}
