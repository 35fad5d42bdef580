package store

// CaseRow is a row of the cases table in the analytical mirror.
type CaseRow struct {
	Idx         int
	NewReleased float64
	NewDeceased float64
	AccReleased float64
	AccDeceased float64
}

// PatientRow is a row of the patients table in the analytical mirror.
type PatientRow struct {
	Idx          int
	Gender       string
	Age          int
	CurrentState string
}

type ValueCount struct {
	Value string
	Count int
}

type TableSummary struct {
	Table  string
	Rows   int
	MinIdx int
	MaxIdx int
}
