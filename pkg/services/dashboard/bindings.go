package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/observability"
	"github.com/de-tools/covid-atlas/pkg/services/views"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownControl = errors.New("unknown control")
	ErrUnknownOutput  = errors.New("unknown output")
	ErrInvalidValue   = errors.New("invalid control value")
)

// Event is a value emitted by a control.
type Event struct {
	Control domain.ControlID
	Value   any
}

// Update replaces the content of one output region. Exactly one of Figure and
// Panel is set. Mounted carries the figures of a panel that was just shown.
type Update struct {
	Output  domain.OutputID
	Figure  *domain.Figure
	Panel   *domain.Panel
	Mounted []Update
}

// Binding ties one control to the single output it recomputes.
type Binding struct {
	Control domain.ControlID
	Output  domain.OutputID

	decode func(raw json.RawMessage) (any, error)
	handle func(value any) (Update, error)
}

func bind[T any](
	control domain.ControlID,
	output domain.OutputID,
	decode func(raw json.RawMessage) (T, error),
	handle func(value T) Update,
) Binding {
	return Binding{
		Control: control,
		Output:  output,
		decode: func(raw json.RawMessage) (any, error) {
			return decode(raw)
		},
		handle: func(value any) (Update, error) {
			v, ok := value.(T)
			if !ok {
				return Update{}, fmt.Errorf("%w: %s does not accept %T", ErrInvalidValue, control, value)
			}
			return handle(v), nil
		},
	}
}

// Bindings is the dispatch table from control id to binding. It is built once
// and never modified.
type Bindings struct {
	table map[domain.ControlID]Binding
	order []domain.ControlID
}

// NewBindings builds the dispatch table over the loaded dataset.
func NewBindings(ds *domain.Dataset) *Bindings {
	b := &Bindings{table: make(map[domain.ControlID]Binding)}

	b.register(bind(domain.ControlCasesCheckbox, domain.OutputCasesFigure, decodeSeries,
		func(series []domain.Series) Update {
			return figureUpdate(domain.OutputCasesFigure, views.CasesLine(ds.Cases, series))
		}))
	b.register(bind(domain.ControlGraphSelector, domain.OutputPatientChart, decodeChartKind,
		func(kind domain.ChartKind) Update {
			return figureUpdate(domain.OutputPatientChart, views.PatientChart(ds.Patients, kind))
		}))
	b.register(bind(domain.ControlAgeRange, domain.OutputConfirmedAgeDist, decodeAgeRange,
		func(ageRange domain.AgeRange) Update {
			return figureUpdate(domain.OutputConfirmedAgeDist, views.ConfirmedAgeScatter(ds.Patients, ageRange))
		}))
	b.register(bind(domain.ControlMainTabs, domain.OutputTabContent, decodeTab,
		func(tab domain.Tab) Update {
			panel := Panel(tab)
			return Update{Output: domain.OutputTabContent, Panel: &panel}
		}))

	return b
}

func (b *Bindings) register(binding Binding) {
	b.table[binding.Control] = binding
	b.order = append(b.order, binding.Control)
}

func figureUpdate(output domain.OutputID, fig domain.Figure) Update {
	return Update{Output: output, Figure: &fig}
}

// Controls lists the bound controls in registration order.
func (b *Bindings) Controls() []domain.ControlID {
	return append([]domain.ControlID(nil), b.order...)
}

func (b *Bindings) Lookup(control domain.ControlID) (Binding, bool) {
	binding, ok := b.table[control]
	return binding, ok
}

func (b *Bindings) ForOutput(output domain.OutputID) (Binding, bool) {
	for _, control := range b.order {
		if binding := b.table[control]; binding.Output == output {
			return binding, true
		}
	}
	return Binding{}, false
}

// Decode turns a raw JSON control value into an event.
func (b *Bindings) Decode(control domain.ControlID, raw json.RawMessage) (Event, error) {
	binding, ok := b.table[control]
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownControl, control)
	}

	value, err := binding.decode(raw)
	if err != nil {
		return Event{}, fmt.Errorf("%w for %s: %v", ErrInvalidValue, control, err)
	}
	return Event{Control: control, Value: value}, nil
}

// Dispatch runs the binding of the event's control and returns the update for
// its output.
func (b *Bindings) Dispatch(ctx context.Context, ev Event) (Update, error) {
	binding, ok := b.table[ev.Control]
	if !ok {
		return Update{}, fmt.Errorf("%w: %q", ErrUnknownControl, ev.Control)
	}

	start := time.Now()
	update, err := binding.handle(ev.Value)
	if err != nil {
		return Update{}, err
	}

	elapsed := time.Since(start)
	observability.DispatchTotal.WithLabelValues(string(ev.Control)).Inc()
	observability.DispatchDuration.WithLabelValues(string(ev.Control)).Observe(elapsed.Seconds())
	zerolog.Ctx(ctx).Debug().
		Str("control", string(ev.Control)).
		Str("output", string(update.Output)).
		Dur("elapsed", elapsed).
		Msg("binding dispatched")

	return update, nil
}

func decodeSeries(raw json.RawMessage) ([]domain.Series, error) {
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, err
	}

	series := make([]domain.Series, 0, len(names))
	for _, name := range names {
		s := domain.Series(name)
		if !s.Valid() {
			return nil, fmt.Errorf("unknown series %q", name)
		}
		series = append(series, s)
	}
	return series, nil
}

func decodeChartKind(raw json.RawMessage) (domain.ChartKind, error) {
	var kind domain.ChartKind
	if err := json.Unmarshal(raw, &kind); err != nil {
		return "", err
	}
	if !kind.Valid() {
		return "", fmt.Errorf("unknown chart kind %q", kind)
	}
	return kind, nil
}

func decodeAgeRange(raw json.RawMessage) (domain.AgeRange, error) {
	var pair []int
	if err := json.Unmarshal(raw, &pair); err != nil {
		return domain.AgeRange{}, err
	}
	if len(pair) != 2 {
		return domain.AgeRange{}, fmt.Errorf("expected [min, max], got %d values", len(pair))
	}

	ageRange := domain.AgeRange{Min: pair[0], Max: pair[1]}
	if !ageRange.Valid() {
		return domain.AgeRange{}, fmt.Errorf("range %v outside [%d, %d]", pair, domain.MinAge, domain.MaxAge)
	}
	return ageRange, nil
}

func decodeTab(raw json.RawMessage) (domain.Tab, error) {
	var tab domain.Tab
	if err := json.Unmarshal(raw, &tab); err != nil {
		return "", err
	}
	if !tab.Valid() {
		return "", fmt.Errorf("unknown tab %q", tab)
	}
	return tab, nil
}
