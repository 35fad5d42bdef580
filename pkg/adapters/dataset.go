package adapters

import (
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/models/store"
)

func MapCaseRecordDomainToStore(r domain.CaseRecord) store.CaseRow {
	return store.CaseRow{
		Idx:         r.Index,
		NewReleased: r.NewReleased,
		NewDeceased: r.NewDeceased,
		AccReleased: r.AccReleased,
		AccDeceased: r.AccDeceased,
	}
}

func MapPatientRecordDomainToStore(p domain.PatientRecord) store.PatientRow {
	return store.PatientRow{
		Idx:          p.Index,
		Gender:       p.Gender,
		Age:          p.Age,
		CurrentState: p.CurrentState,
	}
}

func MapStoreValueCountToDomain(vc store.ValueCount) domain.ValueCount {
	return domain.ValueCount{
		Value: vc.Value,
		Count: vc.Count,
	}
}
