// Package reload tells dnsmasq to re-read its host files after a mutation.
// Reloads are fire-and-forget: Notify returns before the signal is sent and
// the outcome is only logged.
package reload

import (
	"context"
	"log/slog"
	"time"

	"github.com/vitistack/dnsmasq-hosts/internal/metrics"
	"github.com/vitistack/dnsmasq-hosts/internal/model"
	"github.com/vitistack/dnsmasq-hosts/pkg/bslog"
	"github.com/vitistack/dnsmasq-hosts/pkg/pool"
)

// DefaultTimeout bounds a single reload job
const DefaultTimeout = 10 * time.Second

// Notifier is called after every successful host mutation. The entries are
// the values that were written, if any.
type Notifier interface {
	Notify(changed ...model.HostEntry)
}

type Signaller interface {
	Signal(ctx context.Context) ([]int32, error)
}

type Verifier interface {
	Verify(ctx context.Context, entry model.HostEntry) error
}

// Queue is the part of the worker pool the trigger uses
type Queue interface {
	Put(job pool.Job) error
}

type Trigger struct {
	queue     Queue
	signaller Signaller
	verifier  Verifier
	timeout   time.Duration
}

type Option func(*Trigger)

func WithVerifier(v Verifier) Option {
	return func(t *Trigger) {
		t.verifier = v
	}
}

func WithTimeout(d time.Duration) Option {
	return func(t *Trigger) {
		t.timeout = d
	}
}

func NewTrigger(queue Queue, signaller Signaller, opts ...Option) *Trigger {
	t := &Trigger{
		queue:     queue,
		signaller: signaller,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Trigger) Notify(changed ...model.HostEntry) {
	job := &Job{
		signaller: t.signaller,
		verifier:  t.verifier,
		timeout:   t.timeout,
		changed:   changed,
	}
	if err := t.queue.Put(job); err != nil {
		metrics.IncReload(metrics.OutcomeDropped)
		bslog.Warn("dnsmasq reload dropped", slog.String("reason", err.Error()))
	}
}

// Disabled is used when no dnsmasq process should be signalled
type Disabled struct{}

func (Disabled) Notify(changed ...model.HostEntry) {
	bslog.Debug("dnsmasq reload disabled, skipping", slog.Int("changed", len(changed)))
}
