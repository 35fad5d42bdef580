package adapters

import (
	"github.com/de-tools/covid-atlas/pkg/models/api"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
)

// MapFigureDomainToApi converts a figure to plotly's data/layout shape.
// Histograms are sent as pre-binned bars so the browser shows exactly the
// bins computed on the server.
func MapFigureDomainToApi(fig domain.Figure) api.Figure {
	res := api.Figure{
		Data: make([]api.Trace, 0, len(fig.Traces)),
		Layout: api.Layout{
			Title:      api.Text{Text: fig.Title},
			ShowLegend: fig.ShowLegend,
		},
	}

	if fig.XAxisTitle != "" {
		res.Layout.XAxis = &api.Axis{Title: api.Text{Text: fig.XAxisTitle}}
	}
	if fig.YAxisTitle != "" {
		res.Layout.YAxis = &api.Axis{Title: api.Text{Text: fig.YAxisTitle}}
	}
	if fig.LegendTitle != "" {
		res.Layout.Legend = &api.Legend{Title: api.Text{Text: fig.LegendTitle}}
	}
	if fig.Type == domain.ChartTypeHistogram {
		gap := 0.0
		res.Layout.BarGap = &gap
	}

	for _, t := range fig.Traces {
		res.Data = append(res.Data, MapTraceDomainToApi(fig.Type, t))
	}
	return res
}

func MapTraceDomainToApi(chartType domain.ChartType, t domain.Trace) api.Trace {
	switch chartType {
	case domain.ChartTypeLine:
		return api.Trace{Type: "scatter", Mode: "lines", Name: t.Name, X: t.X, Y: t.Y}
	case domain.ChartTypeScatter:
		return api.Trace{
			Type: "scatter",
			Mode: "markers",
			Name: t.Name,
			X:    t.X,
			Y:    t.Y,
			Marker: &api.Marker{
				Size:    t.MarkerSize,
				Opacity: t.MarkerOpacity,
			},
		}
	case domain.ChartTypePie:
		return api.Trace{Type: "pie", Name: t.Name, Labels: t.Labels, Values: t.Values, TextInfo: t.TextInfo}
	case domain.ChartTypeHistogram:
		res := api.Trace{
			Type:  "bar",
			Name:  t.Name,
			X:     make([]float64, 0, len(t.Bins)),
			Y:     make([]float64, 0, len(t.Bins)),
			Width: make([]float64, 0, len(t.Bins)),
		}
		for _, b := range t.Bins {
			res.X = append(res.X, (b.Start+b.End)/2)
			res.Y = append(res.Y, float64(b.Count))
			res.Width = append(res.Width, b.End-b.Start)
		}
		return res
	}
	return api.Trace{Type: string(chartType), Name: t.Name, X: t.X, Y: t.Y}
}
