package dashboard

import (
	"context"
	"sync"
	"testing"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_SubmitRecordsSelection(t *testing.T) {
	loop := startLoop(t)
	ctx := context.Background()

	_, err := loop.Submit(ctx, Event{Control: domain.ControlCasesCheckbox, Value: []domain.Series{domain.SeriesNewDeceased}})
	require.NoError(t, err)
	_, err = loop.Submit(ctx, Event{Control: domain.ControlGraphSelector, Value: domain.ChartKindCurrentState})
	require.NoError(t, err)
	_, err = loop.Submit(ctx, Event{Control: domain.ControlAgeRange, Value: domain.AgeRange{Min: 30, Max: 60}})
	require.NoError(t, err)

	state, err := loop.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Selection{
		Series:    []domain.Series{domain.SeriesNewDeceased},
		ChartKind: domain.ChartKindCurrentState,
		AgeRange:  domain.AgeRange{Min: 30, Max: 60},
	}, state.Selection)
}

func TestLoop_TabSwitchResetsDefaults(t *testing.T) {
	loop := startLoop(t)
	ctx := context.Background()

	_, err := loop.Submit(ctx, Event{Control: domain.ControlMainTabs, Value: domain.TabConfirmedPatient})
	require.NoError(t, err)
	_, err = loop.Submit(ctx, Event{Control: domain.ControlAgeRange, Value: domain.AgeRange{Min: 50, Max: 50}})
	require.NoError(t, err)

	_, err = loop.Submit(ctx, Event{Control: domain.ControlMainTabs, Value: domain.TabCases})
	require.NoError(t, err)
	update, err := loop.Submit(ctx, Event{Control: domain.ControlMainTabs, Value: domain.TabConfirmedPatient})
	require.NoError(t, err)

	require.NotNil(t, update.Panel)
	assert.Equal(t, domain.AgeRange{Min: 0, Max: 100}, update.Panel.Controls[0].Value)

	state, err := loop.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TabConfirmedPatient, state.Tab)
	assert.Equal(t, domain.DefaultSelection(), state.Selection)

	current, err := loop.Current(ctx, domain.OutputConfirmedAgeDist)
	require.NoError(t, err)
	assert.Len(t, current.Figure.Traces[0].X, len(testDataset().Patients))
}

func TestLoop_TabSwitchMountsPanelFigures(t *testing.T) {
	loop := startLoop(t)

	tests := []struct {
		tab     domain.Tab
		outputs []domain.OutputID
	}{
		{tab: domain.TabHome, outputs: []domain.OutputID{}},
		{tab: domain.TabCases, outputs: []domain.OutputID{domain.OutputCasesFigure}},
		{tab: domain.TabPatients, outputs: []domain.OutputID{domain.OutputPatientChart}},
		{tab: domain.TabConfirmedPatient, outputs: []domain.OutputID{domain.OutputConfirmedAgeDist}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			update, err := loop.Submit(context.Background(), Event{Control: domain.ControlMainTabs, Value: tt.tab})
			require.NoError(t, err)

			outputs := []domain.OutputID{}
			for _, m := range update.Mounted {
				require.NotNil(t, m.Figure)
				outputs = append(outputs, m.Output)
			}
			assert.Equal(t, tt.outputs, outputs)
		})
	}
}

func TestLoop_CurrentFollowsSelection(t *testing.T) {
	loop := startLoop(t)
	ctx := context.Background()

	_, err := loop.Submit(ctx, Event{Control: domain.ControlGraphSelector, Value: domain.ChartKindGender})
	require.NoError(t, err)

	update, err := loop.Current(ctx, domain.OutputPatientChart)
	require.NoError(t, err)
	assert.Equal(t, domain.ChartTypePie, update.Figure.Type)

	_, err = loop.Current(ctx, "missing_fig")
	assert.ErrorIs(t, err, ErrUnknownOutput)
}

func TestLoop_FailedEventKeepsState(t *testing.T) {
	loop := startLoop(t)
	ctx := context.Background()

	_, err := loop.Submit(ctx, Event{Control: domain.ControlAgeRange, Value: "not a range"})
	require.ErrorIs(t, err, ErrInvalidValue)

	state, err := loop.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSelection(), state.Selection)
}

func TestLoop_ConcurrentSubmitters(t *testing.T) {
	loop := startLoop(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(age int) {
			defer wg.Done()
			_, err := loop.Submit(ctx, Event{Control: domain.ControlAgeRange, Value: domain.AgeRange{Min: age, Max: age}})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	state, err := loop.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.Selection.AgeRange.Min, state.Selection.AgeRange.Max)
}

func TestLoop_Stopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(NewBindings(testDataset()))
	go loop.Run(ctx)
	cancel()
	<-loop.Done()

	_, err := loop.Submit(context.Background(), Event{Control: domain.ControlGraphSelector, Value: domain.ChartKindAge})
	assert.ErrorIs(t, err, ErrLoopStopped)
}
