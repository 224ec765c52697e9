package bootstrap_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"vagas-dashboard/internal/apiclient"
	"vagas-dashboard/internal/bootstrap"
	"vagas-dashboard/internal/domain"
	"vagas-dashboard/internal/events"
)

type fakeChecker struct {
	mu       sync.Mutex
	calls    []string
	seen     [][]bootstrap.StepState
	seq      *bootstrap.Sequencer
	healthFn func(ctx context.Context) error
	pingFn   func(ctx context.Context) error
	statsFn  func(ctx context.Context) error
}

func (f *fakeChecker) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.seq != nil {
		f.seen = append(f.seen, f.seq.Snapshot().Steps)
	}
}

func (f *fakeChecker) Health(ctx context.Context) error {
	f.record("health")
	if f.healthFn != nil {
		return f.healthFn(ctx)
	}
	return nil
}

func (f *fakeChecker) PingListings(ctx context.Context) error {
	f.record("ping")
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}

func (f *fakeChecker) GetStats(ctx context.Context) (domain.Stats, error) {
	f.record("stats")
	if f.statsFn != nil {
		return domain.Stats{}, f.statsFn(ctx)
	}
	return domain.Stats{}, nil
}

func (f *fakeChecker) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Notify(typ string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, typ)
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}

var _ = Describe("Sequencer", func() {
	var (
		checker   *fakeChecker
		pub       *recordingPublisher
		completed atomic.Int32
		seq       *bootstrap.Sequencer
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		checker = &fakeChecker{}
		pub = &recordingPublisher{}
		completed.Store(0)
		seq = bootstrap.New(checker, bootstrap.Options{
			Publisher:  pub,
			OnComplete: func() { completed.Add(1) },
		})
		checker.seq = seq
	})

	It("runs the checks in order and completes once", func() {
		Expect(seq.Run(ctx)).To(Succeed())

		Expect(checker.Calls()).To(Equal([]string{"health", "ping", "stats"}))
		Expect(seq.Snapshot().Phase).To(Equal(bootstrap.PhaseComplete))
		Expect(completed.Load()).To(Equal(int32(1)))
		Expect(pub.Types()).To(ContainElement(events.TypeBootstrapComplete))
	})

	It("never starts a step before the previous one resolved", func() {
		Expect(seq.Run(ctx)).To(Succeed())

		in, pend, ok := bootstrap.StateInProgress, bootstrap.StatePending, bootstrap.StateSuccess
		Expect(checker.seen).To(Equal([][]bootstrap.StepState{
			{in, pend, pend},
			{ok, in, pend},
			{ok, ok, in},
		}))
	})

	It("halts on the failing step and builds the diagnostic", func() {
		checker.pingFn = func(context.Context) error {
			return &apiclient.HTTPError{Method: "GET", Path: "/vagas/", StatusCode: 500, Detail: "db down"}
		}

		err := seq.Run(ctx)
		Expect(err).To(HaveOccurred())
		Expect(checker.Calls()).To(Equal([]string{"health", "ping"}))

		p := seq.Snapshot()
		Expect(p.Phase).To(Equal(bootstrap.PhaseBlocked))
		Expect(p.Steps).To(Equal([]bootstrap.StepState{
			bootstrap.StateSuccess, bootstrap.StateError, bootstrap.StatePending,
		}))
		Expect(p.Failure).NotTo(BeNil())
		Expect(p.Failure.Step).To(Equal(bootstrap.StepDatabase))
		Expect(p.Failure.Endpoint).To(Equal("/vagas/?limit=1"))
		Expect(p.Failure.Status).To(Equal(500))
		Expect(p.Failure.Message).To(Equal("db down"))
		Expect(p.Failure.Suggestion).To(HavePrefix("DATABASE_ERROR:"))
		Expect(completed.Load()).To(BeZero())
	})

	It("suggests a cold start when connectivity answers 503", func() {
		checker.healthFn = func(context.Context) error {
			return &apiclient.HTTPError{StatusCode: 503, Detail: "Service Unavailable"}
		}
		Expect(seq.Run(ctx)).NotTo(Succeed())
		Expect(seq.Snapshot().Failure.Suggestion).To(HavePrefix("BACKEND_SLEEPING:"))
		Expect(checker.Calls()).To(Equal([]string{"health"}))
	})

	It("refuses to run twice without a retry", func() {
		Expect(seq.Run(ctx)).To(Succeed())
		Expect(seq.Run(ctx)).To(MatchError(bootstrap.ErrAlreadyStarted))
	})

	It("retries from step 0 after a failure", func() {
		fail := true
		checker.statsFn = func(context.Context) error {
			if fail {
				return &apiclient.NetworkError{Err: errors.New("refused")}
			}
			return nil
		}
		Expect(seq.Run(ctx)).NotTo(Succeed())
		Expect(seq.Snapshot().Failure.Suggestion).To(HavePrefix("NETWORK_ERROR:"))

		fail = false
		checker.calls = nil
		checker.seen = nil
		Expect(seq.Retry(ctx)).To(Succeed())

		Expect(checker.Calls()).To(Equal([]string{"health", "ping", "stats"}))
		Expect(checker.seen[0]).To(Equal([]bootstrap.StepState{
			bootstrap.StateInProgress, bootstrap.StatePending, bootstrap.StatePending,
		}))
		Expect(seq.Snapshot().Failure).To(BeNil())
		Expect(completed.Load()).To(Equal(int32(1)))
	})

	It("signals completion only once across retries", func() {
		Expect(seq.Run(ctx)).To(Succeed())
		Expect(seq.Retry(ctx)).To(Succeed())
		Expect(completed.Load()).To(Equal(int32(1)))
	})

	It("supersedes a run still in progress", func() {
		started := make(chan struct{})
		var first atomic.Bool
		first.Store(true)
		checker.healthFn = func(ctx context.Context) error {
			if first.CompareAndSwap(true, false) {
				close(started)
				<-ctx.Done()
				return &apiclient.NetworkError{Err: ctx.Err()}
			}
			return nil
		}

		done := make(chan error, 1)
		go func() { done <- seq.Run(ctx) }()
		Eventually(started).Should(BeClosed())

		Expect(seq.Retry(ctx)).To(Succeed())
		Eventually(done).Should(Receive(MatchError(bootstrap.ErrSuperseded)))

		p := seq.Snapshot()
		Expect(p.Phase).To(Equal(bootstrap.PhaseComplete))
		Expect(p.Failure).To(BeNil())
		Expect(completed.Load()).To(Equal(int32(1)))
	})

	It("pauses between steps", func() {
		slow := bootstrap.New(checker, bootstrap.Options{StepPause: 20 * time.Millisecond, FinalPause: 20 * time.Millisecond})
		began := time.Now()
		Expect(slow.Run(ctx)).To(Succeed())
		Expect(time.Since(began)).To(BeNumerically(">=", 80*time.Millisecond))
	})
})
