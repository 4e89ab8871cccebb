package saga

import (
	"context"
	"fmt"
	"strings"
)

// Action is a forward or compensating unit of work.
type Action func(ctx context.Context) error

// Step pairs a forward action with its compensation.
type Step struct {
	Name       string
	Do         Action
	Compensate Action
}

// Observer is notified when a compensation fails.
type Observer func(saga, step string, err error)

// Option configures a Saga.
type Option func(*Saga)

// WithObserver registers a compensation failure observer.
func WithObserver(o Observer) Option {
	return func(s *Saga) {
		s.observers = append(s.observers, o)
	}
}

type compensation struct {
	step string
	undo Action
}

// Saga records compensations for the steps it has started and replays them
// in reverse order when the operation fails. It is not safe for concurrent use.
type Saga struct {
	name          string
	compensations []compensation
	observers     []Observer
}

// New creates an empty saga.
func New(name string, opts ...Option) *Saga {
	s := &Saga{name: name}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the saga name.
func (s *Saga) Name() string {
	return s.name
}

// Len returns the number of recorded compensations.
func (s *Saga) Len() int {
	return len(s.compensations)
}

// Step records undo and then runs do. The compensation is registered before
// the forward action so a step that fails half way is also restored; undo
// must therefore tolerate a forward action that did not run to completion.
// A nil undo registers nothing.
func (s *Saga) Step(ctx context.Context, name string, do Action, undo Action) error {
	if undo != nil {
		s.compensations = append(s.compensations, compensation{step: name, undo: undo})
	}
	if do == nil {
		return nil
	}
	if err := do(ctx); err != nil {
		return &Error{Saga: s.name, Step: name, Err: err}
	}
	return nil
}

// Defer registers a compensation without a forward action.
func (s *Saga) Defer(name string, undo Action) {
	if undo == nil {
		return
	}
	s.compensations = append(s.compensations, compensation{step: name, undo: undo})
}

// Compensate runs every recorded compensation in reverse order. A failing
// compensation does not stop the remaining ones. Compensations run on a
// context detached from the caller's cancellation.
func (s *Saga) Compensate(ctx context.Context) []error {
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := len(s.compensations) - 1; i >= 0; i-- {
		c := s.compensations[i]
		if err := c.undo(ctx); err != nil {
			errs = append(errs, fmt.Errorf("compensate %s: %w", c.step, err))
			for _, o := range s.observers {
				o(s.name, c.step, err)
			}
		}
	}
	s.compensations = nil
	return errs
}

// Fail compensates and returns the primary error annotated with the
// compensation outcome. step names the failing step when err is not already
// a saga error.
func (s *Saga) Fail(ctx context.Context, step string, err error) *Error {
	se, ok := err.(*Error)
	if !ok {
		se = &Error{Saga: s.name, Step: step, Err: err}
	}
	se.CompensationErrors = append(se.CompensationErrors, s.Compensate(ctx)...)
	return se
}

// Run executes steps in order and compensates on the first failure.
func (s *Saga) Run(ctx context.Context, steps ...Step) error {
	for _, st := range steps {
		if err := s.Step(ctx, st.Name, st.Do, st.Compensate); err != nil {
			return s.Fail(ctx, st.Name, err)
		}
	}
	return nil
}

// WithCompensation runs a fixed list of steps as a single saga.
func WithCompensation(ctx context.Context, name string, steps []Step, opts ...Option) error {
	return New(name, opts...).Run(ctx, steps...)
}

// Error reports the step that failed and any compensation that failed after it.
type Error struct {
	Saga               string
	Step               string
	Err                error
	CompensationErrors []error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "saga %s: step %s: %v", e.Saga, e.Step, e.Err)
	if len(e.CompensationErrors) > 0 {
		fmt.Fprintf(&b, " (%d compensation failures)", len(e.CompensationErrors))
	}
	return b.String()
}

// Unwrap returns the primary error only.
func (e *Error) Unwrap() error {
	return e.Err
}

// RolledBack reports whether every compensation succeeded.
func (e *Error) RolledBack() bool {
	return len(e.CompensationErrors) == 0
}
