package domain

type ChartKind string

const (
	ChartKindAge          ChartKind = "age"
	ChartKindGender       ChartKind = "gender"
	ChartKindCurrentState ChartKind = "current_state"
)

var AllChartKinds = []ChartKind{ChartKindAge, ChartKindGender, ChartKindCurrentState}

func (k ChartKind) Label() string {
	switch k {
	case ChartKindAge:
		return "Age Distribution"
	case ChartKindGender:
		return "Gender Distribution"
	case ChartKindCurrentState:
		return "Current State Distribution"
	}
	return string(k)
}

func (k ChartKind) Valid() bool {
	return k == ChartKindAge || k == ChartKindGender || k == ChartKindCurrentState
}

const (
	MinAge = 0
	MaxAge = 100
)

// AgeRange is an inclusive [Min, Max] pair emitted by the age slider.
type AgeRange struct {
	Min int
	Max int
}

func (r AgeRange) Contains(age int) bool {
	return age >= r.Min && age <= r.Max
}

func (r AgeRange) Valid() bool {
	return MinAge <= r.Min && r.Min <= r.Max && r.Max <= MaxAge
}

type Tab string

const (
	TabHome             Tab = "home"
	TabCases            Tab = "cases"
	TabPatients         Tab = "patients"
	TabConfirmedPatient Tab = "confirmed_patient"
)

var AllTabs = []Tab{TabHome, TabCases, TabPatients, TabConfirmedPatient}

func (t Tab) Label() string {
	switch t {
	case TabHome:
		return "Home"
	case TabCases:
		return "Cases"
	case TabPatients:
		return "Patients"
	case TabConfirmedPatient:
		return "Confirmed Patient"
	}
	return string(t)
}

func (t Tab) Valid() bool {
	return t == TabHome || t == TabCases || t == TabPatients || t == TabConfirmedPatient
}

// Selection is the control state of the dashboard.
type Selection struct {
	Series    []Series
	ChartKind ChartKind
	AgeRange  AgeRange
}

// DefaultSelection returns the values every control starts with when its
// panel is mounted.
func DefaultSelection() Selection {
	series := make([]Series, len(AllSeries))
	copy(series, AllSeries)
	return Selection{
		Series:    series,
		ChartKind: ChartKindAge,
		AgeRange:  AgeRange{Min: MinAge, Max: MaxAge},
	}
}
