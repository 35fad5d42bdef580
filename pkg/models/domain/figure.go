package domain

type ChartType string

const (
	ChartTypeLine      ChartType = "line"
	ChartTypeHistogram ChartType = "histogram"
	ChartTypePie       ChartType = "pie"
	ChartTypeScatter   ChartType = "scatter"
)

// Figure is a chart specification produced by a view function.
type Figure struct {
	Type        ChartType
	Title       string
	XAxisTitle  string
	YAxisTitle  string
	LegendTitle string
	ShowLegend  bool
	Traces      []Trace
}

type Trace struct {
	Name string
	X    []float64
	Y    []float64

	// pie only
	Labels   []string
	Values   []float64
	Percents []float64
	TextInfo string

	// histogram only
	Bins []Bin

	MarkerSize    float64
	MarkerOpacity float64
}

// Bin is a half-open [Start, End) interval; the last bin of a histogram also
// includes its End.
type Bin struct {
	Start float64
	End   float64
	Count int
}
