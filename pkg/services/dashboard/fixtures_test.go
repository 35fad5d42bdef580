package dashboard

import (
	"context"
	"testing"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
)

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Cases: []domain.CaseRecord{
			{Index: 0, NewReleased: 1, NewDeceased: 0, AccReleased: 1, AccDeceased: 0},
			{Index: 1, NewReleased: 2, NewDeceased: 1, AccReleased: 3, AccDeceased: 1},
		},
		Patients: []domain.PatientRecord{
			{Index: 0, Gender: "male", Age: 50, CurrentState: "released"},
			{Index: 1, Gender: "female", Age: 20, CurrentState: "isolated"},
			{Index: 2, Gender: "female", Age: 50, CurrentState: "deceased"},
			{Index: 4, Gender: "male", Age: 77, CurrentState: "released"},
		},
	}
}

func startLoop(t *testing.T) *Loop {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(NewBindings(testDataset()))
	go loop.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})
	return loop
}
