package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

var ErrLoopStopped = errors.New("event loop stopped")

// State is the control state owned by the loop.
type State struct {
	Tab       domain.Tab
	Selection domain.Selection
}

func (s State) clone() State {
	s.Selection.Series = append([]domain.Series{}, s.Selection.Series...)
	return s
}

type request struct {
	ctx   context.Context
	run   func(ctx context.Context, state *State) (Update, error)
	reply chan result
}

type result struct {
	update Update
	err    error
}

// Loop processes control events one at a time on a single goroutine. A
// handler runs to completion before the next event is taken.
type Loop struct {
	bindings *Bindings
	requests chan request
	done     chan struct{}

	// state is only touched by the goroutine running Run.
	state State
}

func NewLoop(bindings *Bindings) *Loop {
	return &Loop{
		bindings: bindings,
		requests: make(chan request),
		done:     make(chan struct{}),
		state: State{
			Tab:       domain.TabHome,
			Selection: domain.DefaultSelection(),
		},
	}
}

func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	defer close(l.done)

	logger.Debug().Msg("event loop started")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("event loop stopped")
			return
		case req := <-l.requests:
			update, err := req.run(req.ctx, &l.state)
			req.reply <- result{update: update, err: err}
		}
	}
}

func (l *Loop) do(ctx context.Context, run func(ctx context.Context, state *State) (Update, error)) (Update, error) {
	reply := make(chan result, 1)

	select {
	case l.requests <- request{ctx: ctx, run: run, reply: reply}:
	case <-ctx.Done():
		return Update{}, ctx.Err()
	case <-l.done:
		return Update{}, ErrLoopStopped
	}

	select {
	case r := <-reply:
		return r.update, r.err
	case <-ctx.Done():
		return Update{}, ctx.Err()
	}
}

// Submit dispatches the event and records the new control value. A tab event
// resets every control to its default and carries the figures of the newly
// mounted panel.
func (l *Loop) Submit(ctx context.Context, ev Event) (Update, error) {
	return l.do(ctx, func(ctx context.Context, state *State) (Update, error) {
		update, err := l.bindings.Dispatch(ctx, ev)
		if err != nil {
			return Update{}, err
		}

		switch v := ev.Value.(type) {
		case []domain.Series:
			state.Selection.Series = append([]domain.Series{}, v...)
		case domain.ChartKind:
			state.Selection.ChartKind = v
		case domain.AgeRange:
			state.Selection.AgeRange = v
		case domain.Tab:
			state.Tab = v
			state.Selection = domain.DefaultSelection()
			update.Mounted, err = l.mount(ctx, *update.Panel)
			if err != nil {
				return Update{}, err
			}
		}
		return update, nil
	})
}

func (l *Loop) mount(ctx context.Context, panel domain.Panel) ([]Update, error) {
	mounted := make([]Update, 0, len(panel.Controls))
	for _, control := range panel.Controls {
		update, err := l.bindings.Dispatch(ctx, Event{Control: control.ID, Value: control.Value})
		if err != nil {
			return nil, fmt.Errorf("failed to mount %s: %w", control.ID, err)
		}
		mounted = append(mounted, update)
	}
	return mounted, nil
}

// Current recomputes the output from the control values currently held by
// the loop.
func (l *Loop) Current(ctx context.Context, output domain.OutputID) (Update, error) {
	binding, ok := l.bindings.ForOutput(output)
	if !ok {
		return Update{}, fmt.Errorf("%w: %q", ErrUnknownOutput, output)
	}

	return l.do(ctx, func(ctx context.Context, state *State) (Update, error) {
		return l.bindings.Dispatch(ctx, Event{
			Control: binding.Control,
			Value:   state.value(binding.Control),
		})
	})
}

func (s *State) value(control domain.ControlID) any {
	switch control {
	case domain.ControlCasesCheckbox:
		return append([]domain.Series{}, s.Selection.Series...)
	case domain.ControlGraphSelector:
		return s.Selection.ChartKind
	case domain.ControlAgeRange:
		return s.Selection.AgeRange
	case domain.ControlMainTabs:
		return s.Tab
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (l *Loop) Snapshot(ctx context.Context) (State, error) {
	snapshot := make(chan State, 1)
	_, err := l.do(ctx, func(_ context.Context, state *State) (Update, error) {
		snapshot <- state.clone()
		return Update{}, nil
	})
	if err != nil {
		return State{}, err
	}
	return <-snapshot, nil
}

func (l *Loop) Selection(ctx context.Context) (domain.Selection, error) {
	state, err := l.Snapshot(ctx)
	return state.Selection, err
}
