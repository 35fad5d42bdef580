package domain

// Series names one numeric column of the cases table.
type Series string

const (
	SeriesNewReleased Series = "new_released"
	SeriesNewDeceased Series = "new_deceased"
	SeriesAccReleased Series = "acc_released"
	SeriesAccDeceased Series = "acc_deceased"
)

// AllSeries is the declared option order of the case-series checklist.
var AllSeries = []Series{
	SeriesNewReleased,
	SeriesNewDeceased,
	SeriesAccReleased,
	SeriesAccDeceased,
}

func (s Series) Label() string {
	switch s {
	case SeriesNewReleased:
		return "New Released"
	case SeriesNewDeceased:
		return "New Deceased"
	case SeriesAccReleased:
		return "Accumulated Released"
	case SeriesAccDeceased:
		return "Accumulated Deceased"
	}
	return string(s)
}

func (s Series) Valid() bool {
	for _, known := range AllSeries {
		if s == known {
			return true
		}
	}
	return false
}

// CaseRecord is one row of the cases table. Index is the row position in the
// source file and survives the removal of incomplete rows.
type CaseRecord struct {
	Index       int
	NewReleased float64
	NewDeceased float64
	AccReleased float64
	AccDeceased float64
}

func (r CaseRecord) Value(s Series) float64 {
	switch s {
	case SeriesNewReleased:
		return r.NewReleased
	case SeriesNewDeceased:
		return r.NewDeceased
	case SeriesAccReleased:
		return r.AccReleased
	case SeriesAccDeceased:
		return r.AccDeceased
	}
	return 0
}

// PatientRecord keeps only the three columns the dashboard reads.
type PatientRecord struct {
	Index        int
	Gender       string
	Age          int
	CurrentState string
}

// Dataset holds both tables. It is built once at startup and only read afterwards.
type Dataset struct {
	Cases    []CaseRecord
	Patients []PatientRecord
}

// Sources describes where the two CSV files live.
type Sources struct {
	CasesURL    string
	PatientsURL string
}

// ValueCount is one entry of a "count distinct values" result.
type ValueCount struct {
	Value string
	Count int
}
