package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"vagas-dashboard/internal/events"
)

const (
	DefaultStepPause  = 300 * time.Millisecond
	DefaultFinalPause = 500 * time.Millisecond
)

var (
	ErrAlreadyStarted = errors.New("bootstrap already started")
	// ErrSuperseded is returned by a run that a later Retry replaced.
	ErrSuperseded = errors.New("bootstrap run superseded by retry")
)

// Publisher receives typed progress events (see events.Hub).
type Publisher interface {
	Notify(typ string, data any)
}

type Options struct {
	Steps      []Step
	StepPause  time.Duration
	FinalPause time.Duration
	Publisher  Publisher
	// OnComplete fires once, the first time every step has succeeded.
	OnComplete func()
}

type Sequencer struct {
	checker    Checker
	steps      []Step
	stepPause  time.Duration
	finalPause time.Duration
	pub        Publisher
	sleep      func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	progress Progress
	gen      uint64
	cancel   context.CancelFunc

	onComplete func()
	once       sync.Once
}

func New(c Checker, opts Options) *Sequencer {
	steps := opts.Steps
	if steps == nil {
		steps = DefaultSteps
	}
	return &Sequencer{
		checker:    c,
		steps:      steps,
		stepPause:  opts.StepPause,
		finalPause: opts.FinalPause,
		pub:        opts.Publisher,
		sleep:      sleepCtx,
		progress:   NewProgress(len(steps)),
		onComplete: opts.OnComplete,
	}
}

// Steps returns the fixed check list.
func (s *Sequencer) Steps() []Step { return s.steps }

// Snapshot returns a copy of the current progress.
func (s *Sequencer) Snapshot() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.clone()
}

// Run executes the sequence once from the idle state and blocks until it
// completes, halts on a failed step, or is superseded by Retry.
func (s *Sequencer) Run(ctx context.Context) error {
	return s.start(ctx, EventStart)
}

// Retry resets every step to pending and restarts at step 0. A run still
// in progress is cancelled and can no longer change the state.
func (s *Sequencer) Retry(ctx context.Context) error {
	return s.start(ctx, EventRetry)
}

func (s *Sequencer) start(ctx context.Context, kind EventKind) error {
	s.mu.Lock()
	if kind == EventStart && s.progress.Phase != PhaseIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.progress = Reduce(s.progress, Event{Kind: kind})
	snap := s.progress.clone()
	s.mu.Unlock()

	defer cancel()
	s.publish(events.TypeBootstrapProgress, snap)
	return s.loop(runCtx, gen)
}

func (s *Sequencer) loop(ctx context.Context, gen uint64) error {
	logger := log.WithField("component", "bootstrap")

	for i, step := range s.steps {
		err := step.Run(ctx, s.checker)
		if err != nil {
			f := newFailure(step, err)
			if !s.dispatch(gen, Event{Kind: EventFailed, Step: i, Failure: f}) {
				return ErrSuperseded
			}
			logger.WithFields(log.Fields{
				"step":       step.ID,
				"endpoint":   step.Endpoint,
				"status":     f.Status,
				"kind":       f.Kind,
				"suggestion": f.Suggestion,
			}).Warn("health check failed")
			return fmt.Errorf("bootstrap step %s: %w", step.ID, err)
		}

		if !s.dispatch(gen, Event{Kind: EventSucceeded, Step: i}) {
			return ErrSuperseded
		}
		logger.WithField("step", step.ID).Debug("health check ok")

		pause := s.stepPause
		if i == len(s.steps)-1 {
			pause += s.finalPause
		}
		if err := s.sleep(ctx, pause); err != nil {
			if !s.current(gen) {
				return ErrSuperseded
			}
			return err
		}
		if !s.dispatch(gen, Event{Kind: EventAdvance, Step: i}) {
			return ErrSuperseded
		}
	}

	if !s.current(gen) {
		return ErrSuperseded
	}
	logger.Info("bootstrap complete")
	s.once.Do(func() {
		if s.onComplete != nil {
			s.onComplete()
		}
	})
	s.publish(events.TypeBootstrapComplete, s.Snapshot())
	return nil
}

// dispatch applies e when gen is still the live run.
func (s *Sequencer) dispatch(gen uint64, e Event) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.progress = Reduce(s.progress, e)
	snap := s.progress.clone()
	s.mu.Unlock()

	s.publish(events.TypeBootstrapProgress, snap)
	return true
}

func (s *Sequencer) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

func (s *Sequencer) publish(typ string, p Progress) {
	if s.pub == nil {
		return
	}
	s.pub.Notify(typ, p)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
