package bootstrap_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"vagas-dashboard/internal/bootstrap"
)

var _ = Describe("Reduce", func() {
	var (
		pending    = bootstrap.StatePending
		inProgress = bootstrap.StateInProgress
		success    = bootstrap.StateSuccess
		failed     = bootstrap.StateError
	)

	start := func() bootstrap.Progress {
		return bootstrap.Reduce(bootstrap.NewProgress(3), bootstrap.Event{Kind: bootstrap.EventStart})
	}
	ev := func(k bootstrap.EventKind, i int) bootstrap.Event {
		return bootstrap.Event{Kind: k, Step: i}
	}

	It("moves step 0 to in progress on start", func() {
		p := start()
		Expect(p.Phase).To(Equal(bootstrap.PhaseRunning))
		Expect(p.Steps).To(Equal([]bootstrap.StepState{inProgress, pending, pending}))
		Expect(p.Current).To(Equal(0))
	})

	It("only starts the next step after the previous succeeded and advanced", func() {
		p := start()
		p = bootstrap.Reduce(p, ev(bootstrap.EventSucceeded, 0))
		Expect(p.Steps).To(Equal([]bootstrap.StepState{success, pending, pending}))

		p = bootstrap.Reduce(p, ev(bootstrap.EventAdvance, 0))
		Expect(p.Steps).To(Equal([]bootstrap.StepState{success, inProgress, pending}))
		Expect(p.Current).To(Equal(1))
	})

	It("ignores events for steps that are not current", func() {
		p := start()
		same := bootstrap.Reduce(p, ev(bootstrap.EventSucceeded, 1))
		Expect(same).To(Equal(p))
		same = bootstrap.Reduce(p, ev(bootstrap.EventAdvance, 0))
		Expect(same).To(Equal(p))
	})

	It("halts on failure and keeps later steps pending", func() {
		p := start()
		p = bootstrap.Reduce(p, ev(bootstrap.EventSucceeded, 0))
		p = bootstrap.Reduce(p, ev(bootstrap.EventAdvance, 0))
		f := &bootstrap.Failure{Step: bootstrap.StepDatabase}
		p = bootstrap.Reduce(p, bootstrap.Event{Kind: bootstrap.EventFailed, Step: 1, Failure: f})

		Expect(p.Phase).To(Equal(bootstrap.PhaseBlocked))
		Expect(p.Steps).To(Equal([]bootstrap.StepState{success, failed, pending}))
		Expect(p.Failure).To(Equal(f))

		for _, k := range []bootstrap.EventKind{bootstrap.EventSucceeded, bootstrap.EventAdvance, bootstrap.EventFailed} {
			Expect(bootstrap.Reduce(p, ev(k, 2)).Steps[2]).To(Equal(pending))
		}
	})

	It("completes after the last step advances", func() {
		p := start()
		for i := 0; i < 3; i++ {
			p = bootstrap.Reduce(p, ev(bootstrap.EventSucceeded, i))
			p = bootstrap.Reduce(p, ev(bootstrap.EventAdvance, i))
		}
		Expect(p.Phase).To(Equal(bootstrap.PhaseComplete))
		Expect(p.Percent()).To(Equal(100))
	})

	It("resets every step on retry from any state", func() {
		blocked := bootstrap.Reduce(start(), bootstrap.Event{Kind: bootstrap.EventFailed, Step: 0, Failure: &bootstrap.Failure{}})
		midway := bootstrap.Reduce(start(), ev(bootstrap.EventSucceeded, 0))

		for _, p := range []bootstrap.Progress{blocked, midway, bootstrap.NewProgress(3)} {
			r := bootstrap.Reduce(p, bootstrap.Event{Kind: bootstrap.EventRetry})
			Expect(r.Phase).To(Equal(bootstrap.PhaseRunning))
			Expect(r.Current).To(Equal(0))
			Expect(r.Failure).To(BeNil())
			Expect(r.Steps).To(Equal([]bootstrap.StepState{inProgress, pending, pending}))
		}
	})

	It("does not mutate its input", func() {
		p := start()
		_ = bootstrap.Reduce(p, ev(bootstrap.EventSucceeded, 0))
		Expect(p.Steps[0]).To(Equal(inProgress))
	})

	It("ignores a second start", func() {
		p := bootstrap.Reduce(start(), ev(bootstrap.EventSucceeded, 0))
		Expect(bootstrap.Reduce(p, bootstrap.Event{Kind: bootstrap.EventStart})).To(Equal(p))
	})
})
