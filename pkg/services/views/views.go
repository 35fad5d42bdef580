package views

import (
	"math"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/samber/lo"
)

const (
	casesTitle        = "COVID-19 Cases in Indonesia"
	ageHistTitle      = "Distribution of Covid-19 Patient in Indonesia by Age"
	genderPieTitle    = "Percentage of Covid-19 Patient in Indonesia by Gender"
	statePieTitle     = "Percentage of Current State of Covid-19 Patient in Indonesia"
	confirmedAgeTitle = "Age Distribution of Confirmed Patients"

	AgeHistogramBins = 20

	scatterMarkerSize    = 8
	scatterMarkerOpacity = 0.7
)

// CasesLine plots every selected series against the time index, in the order
// the series were selected.
func CasesLine(cases []domain.CaseRecord, series []domain.Series) domain.Figure {
	x := lo.Map(cases, func(r domain.CaseRecord, _ int) float64 {
		return float64(r.Index)
	})

	traces := make([]domain.Trace, 0, len(series))
	for _, s := range series {
		y := lo.Map(cases, func(r domain.CaseRecord, _ int) float64 {
			return r.Value(s)
		})
		traces = append(traces, domain.Trace{
			Name: string(s),
			X:    append([]float64(nil), x...),
			Y:    y,
		})
	}

	return domain.Figure{
		Type:        domain.ChartTypeLine,
		Title:       casesTitle,
		XAxisTitle:  "index",
		YAxisTitle:  "Number of Cases",
		LegendTitle: "Case Type",
		ShowLegend:  true,
		Traces:      traces,
	}
}

// AgeHistogram splits [min age, max age] into AgeHistogramBins equal-width bins.
func AgeHistogram(patients []domain.PatientRecord) domain.Figure {
	fig := domain.Figure{
		Type:       domain.ChartTypeHistogram,
		Title:      ageHistTitle,
		XAxisTitle: "age",
		YAxisTitle: "count",
	}

	ages := lo.Map(patients, func(p domain.PatientRecord, _ int) float64 {
		return float64(p.Age)
	})
	fig.Traces = []domain.Trace{{
		Name: "age",
		X:    ages,
		Bins: histogram(ages, AgeHistogramBins),
	}}
	return fig
}

func histogram(values []float64, n int) []domain.Bin {
	if len(values) == 0 || n <= 0 {
		return []domain.Bin{}
	}

	lowest, highest := lo.Min(values), lo.Max(values)
	span := highest - lowest
	if span == 0 {
		span = 1
	}
	width := span / float64(n)

	bins := make([]domain.Bin, n)
	for i := range bins {
		bins[i].Start = lowest + float64(i)*width
		bins[i].End = lowest + float64(i+1)*width
	}
	for _, v := range values {
		i := int(math.Floor((v - lowest) / width))
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

func GenderPie(patients []domain.PatientRecord) domain.Figure {
	counts := ValueCounts(lo.Map(patients, func(p domain.PatientRecord, _ int) string {
		return p.Gender
	}))

	fig := pie(genderPieTitle, counts)
	fig.LegendTitle = "Gender"
	fig.Traces[0].TextInfo = "percent+label"
	return fig
}

func CurrentStatePie(patients []domain.PatientRecord) domain.Figure {
	counts := ValueCounts(lo.Map(patients, func(p domain.PatientRecord, _ int) string {
		return p.CurrentState
	}))
	return pie(statePieTitle, counts)
}

func pie(title string, counts []domain.ValueCount) domain.Figure {
	total := lo.SumBy(counts, func(c domain.ValueCount) int { return c.Count })

	trace := domain.Trace{
		Labels:   make([]string, 0, len(counts)),
		Values:   make([]float64, 0, len(counts)),
		Percents: make([]float64, 0, len(counts)),
		TextInfo: "percent",
	}
	for _, c := range counts {
		trace.Labels = append(trace.Labels, c.Value)
		trace.Values = append(trace.Values, float64(c.Count))
		trace.Percents = append(trace.Percents, 100*float64(c.Count)/float64(total))
	}

	return domain.Figure{
		Type:       domain.ChartTypePie,
		Title:      title,
		ShowLegend: true,
		Traces:     []domain.Trace{trace},
	}
}

// PatientChart returns the chart shown by the patients tab for the given kind.
func PatientChart(patients []domain.PatientRecord, kind domain.ChartKind) domain.Figure {
	switch kind {
	case domain.ChartKindGender:
		return GenderPie(patients)
	case domain.ChartKindCurrentState:
		return CurrentStatePie(patients)
	default:
		return AgeHistogram(patients)
	}
}

// ConfirmedAgeScatter plots the age of every patient inside the inclusive
// range against the patient's row index.
func ConfirmedAgeScatter(patients []domain.PatientRecord, ageRange domain.AgeRange) domain.Figure {
	selected := lo.Filter(patients, func(p domain.PatientRecord, _ int) bool {
		return ageRange.Contains(p.Age)
	})

	return domain.Figure{
		Type:       domain.ChartTypeScatter,
		Title:      confirmedAgeTitle,
		XAxisTitle: "Age",
		YAxisTitle: "index",
		Traces: []domain.Trace{{
			Name: "age",
			X: lo.Map(selected, func(p domain.PatientRecord, _ int) float64 {
				return float64(p.Age)
			}),
			Y: lo.Map(selected, func(p domain.PatientRecord, _ int) float64 {
				return float64(p.Index)
			}),
			MarkerSize:    scatterMarkerSize,
			MarkerOpacity: scatterMarkerOpacity,
		}},
	}
}
