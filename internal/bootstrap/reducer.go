package bootstrap

type StepState string

const (
	StatePending    StepState = "pending"
	StateInProgress StepState = "in_progress"
	StateSuccess    StepState = "success"
	StateError      StepState = "error"
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseRunning  Phase = "running"
	PhaseBlocked  Phase = "blocked"
	PhaseComplete Phase = "complete"
)

// Progress is the whole state of one bootstrap pass. Treat it as a value:
// Reduce never mutates its input.
type Progress struct {
	Phase   Phase       `json:"phase"`
	Steps   []StepState `json:"steps"`
	Current int         `json:"current"`
	Failure *Failure    `json:"failure,omitempty"`
}

type EventKind string

const (
	EventStart     EventKind = "start"
	EventSucceeded EventKind = "step_succeeded"
	EventAdvance   EventKind = "advance"
	EventFailed    EventKind = "step_failed"
	EventRetry     EventKind = "retry"
)

type Event struct {
	Kind    EventKind
	Step    int
	Failure *Failure
}

// NewProgress returns n pending steps in the idle phase.
func NewProgress(n int) Progress {
	p := Progress{Phase: PhaseIdle, Steps: make([]StepState, n)}
	for i := range p.Steps {
		p.Steps[i] = StatePending
	}
	return p
}

// Reduce maps (state, event) to the next state. Events that do not fit the
// current state are ignored, which keeps the ordering invariants: step i+1
// never leaves pending before step i succeeded, and nothing after a failed
// step ever runs.
func Reduce(p Progress, e Event) Progress {
	n := len(p.Steps)
	switch e.Kind {
	case EventStart:
		if p.Phase != PhaseIdle {
			return p
		}
		return restart(n)

	case EventRetry:
		return restart(n)

	case EventSucceeded:
		if p.Phase != PhaseRunning || e.Step != p.Current || p.Steps[e.Step] != StateInProgress {
			return p
		}
		next := p.clone()
		next.Steps[e.Step] = StateSuccess
		return next

	case EventAdvance:
		if p.Phase != PhaseRunning || e.Step != p.Current || p.Steps[e.Step] != StateSuccess {
			return p
		}
		next := p.clone()
		if e.Step == n-1 {
			next.Phase = PhaseComplete
			return next
		}
		next.Current = e.Step + 1
		next.Steps[next.Current] = StateInProgress
		return next

	case EventFailed:
		if p.Phase != PhaseRunning || e.Step != p.Current || p.Steps[e.Step] != StateInProgress {
			return p
		}
		next := p.clone()
		next.Steps[e.Step] = StateError
		next.Phase = PhaseBlocked
		next.Failure = e.Failure
		return next
	}
	return p
}

func restart(n int) Progress {
	p := NewProgress(n)
	if n == 0 {
		p.Phase = PhaseComplete
		return p
	}
	p.Phase = PhaseRunning
	p.Steps[0] = StateInProgress
	return p
}

func (p Progress) clone() Progress {
	out := p
	out.Steps = append([]StepState(nil), p.Steps...)
	return out
}

// Succeeded counts finished steps, for the progress bar.
func (p Progress) Succeeded() int {
	n := 0
	for _, s := range p.Steps {
		if s == StateSuccess {
			n++
		}
	}
	return n
}

// Percent is the share of succeeded steps, 0..100.
func (p Progress) Percent() int {
	if len(p.Steps) == 0 {
		return 100
	}
	return p.Succeeded() * 100 / len(p.Steps)
}
