// Package app ties the startup health checks to the dashboard.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"vagas-dashboard/internal/bootstrap"
	"vagas-dashboard/internal/dashboard"
)

// Root gates the dashboard behind the bootstrap sequence. Until every
// check has passed the web layer renders the loading screen.
type Root struct {
	seq   *bootstrap.Sequencer
	dash  *dashboard.Dashboard
	ready atomic.Bool

	mu  sync.Mutex
	ctx context.Context
	wg  sync.WaitGroup
}

// New builds the sequencer from opts. Any OnComplete in opts runs after
// the root has marked itself ready.
func New(c bootstrap.Checker, d *dashboard.Dashboard, opts bootstrap.Options) *Root {
	r := &Root{dash: d, ctx: context.Background()}
	next := opts.OnComplete
	opts.OnComplete = func() {
		r.complete()
		if next != nil {
			next()
		}
	}
	r.seq = bootstrap.New(c, opts)
	return r
}

func (r *Root) Sequencer() *bootstrap.Sequencer { return r.seq }

func (r *Root) Dashboard() *dashboard.Dashboard { return r.dash }

func (r *Root) Ready() bool { return r.ready.Load() }

// Start launches the sequence in the background. ctx bounds every run,
// retries included.
func (r *Root) Start(ctx context.Context) {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()
	r.launch(r.seq.Run)
}

// Retry restarts the sequence from the first step. A run still in flight
// is superseded.
func (r *Root) Retry() {
	r.launch(r.seq.Retry)
}

// Wait blocks until every launched run has returned.
func (r *Root) Wait() {
	r.wg.Wait()
}

func (r *Root) launch(run func(context.Context) error) {
	ctx := r.context()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := run(ctx)
		switch {
		case err == nil,
			errors.Is(err, bootstrap.ErrSuperseded),
			errors.Is(err, context.Canceled):
		case errors.Is(err, bootstrap.ErrAlreadyStarted):
			log.WithField("component", "app").Debug("bootstrap already started")
		default:
			log.WithField("component", "app").WithError(err).Info("bootstrap halted, waiting for retry")
		}
	}()
}

func (r *Root) complete() {
	r.ready.Store(true)
	log.WithField("component", "app").Info("dashboard ready")
	_ = r.dash.Refresh(r.context())
}

func (r *Root) context() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx
}
