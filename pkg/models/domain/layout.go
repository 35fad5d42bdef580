package domain

// ControlID names a UI control that emits values.
type ControlID string

// OutputID names a region of the page that displays a figure or a panel.
type OutputID string

const (
	ControlCasesCheckbox ControlID = "cases-checkbox"
	ControlGraphSelector ControlID = "graph_selector"
	ControlAgeRange      ControlID = "age-range-slider"
	ControlMainTabs      ControlID = "main-tabs"
)

const (
	OutputCasesFigure      OutputID = "covid_cases_fig"
	OutputPatientChart     OutputID = "selected_patient_chart"
	OutputConfirmedAgeDist OutputID = "confirmed_patient_age_dist_fig"
	OutputTabContent       OutputID = "main-tabs-content"
)

type ControlKind string

const (
	ControlKindChecklist   ControlKind = "checklist"
	ControlKindRadio       ControlKind = "radio"
	ControlKindRangeSlider ControlKind = "range_slider"
)

type Option struct {
	Label string
	Value string
}

// Control is a control declaration inside a panel, including the value it is
// mounted with.
type Control struct {
	ID      ControlID
	Kind    ControlKind
	Options []Option
	Value   any
	Min     int
	Max     int
	Step    int
	Marks   map[int]string
	Output  OutputID
}

// Panel is what a tab shows: a heading, optional text, controls and the
// chart placeholders they drive.
type Panel struct {
	Tab        Tab
	Heading    string
	Paragraphs []string
	Controls   []Control
}
