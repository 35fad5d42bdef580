package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultWidth  = 900
	DefaultHeight = 450

	scatterAlpha = 255
)

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorRed,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorAlternateGray,
}

// Renderer draws figures as SVG.
type Renderer struct {
	Width  int
	Height int
}

func NewRenderer() *Renderer {
	return &Renderer{Width: DefaultWidth, Height: DefaultHeight}
}

// SVG writes the figure to w. A figure go-chart cannot draw (no points,
// all-zero pie) is written as a titled placeholder so the page still shows
// something.
func (r *Renderer) SVG(ctx context.Context, fig domain.Figure, w io.Writer) error {
	var buf bytes.Buffer
	if err := r.render(fig, &buf); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).
			Str("chart", string(fig.Type)).
			Str("title", fig.Title).
			Msg("chart render failed, writing placeholder")
		buf.Reset()
		r.placeholder(fig.Title, &buf)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

func (r *Renderer) render(fig domain.Figure, w io.Writer) error {
	switch fig.Type {
	case domain.ChartTypeLine, domain.ChartTypeScatter:
		return r.xy(fig, w)
	case domain.ChartTypeHistogram:
		return r.bars(fig, w)
	case domain.ChartTypePie:
		return r.pie(fig, w)
	}
	return fmt.Errorf("unsupported chart type %q", fig.Type)
}

func (r *Renderer) xy(fig domain.Figure, w io.Writer) error {
	series := make([]chart.Series, 0, len(fig.Traces))
	for i, t := range fig.Traces {
		color := palette[i%len(palette)]
		style := chart.Style{StrokeColor: color, StrokeWidth: 2}
		if fig.Type == domain.ChartTypeScatter {
			style = pointStyle(color, t)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    t.Name,
			XValues: t.X,
			YValues: t.Y,
			Style:   style,
		})
	}

	ch := chart.Chart{
		Title:      fig.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: fig.XAxisTitle},
		YAxis:      chart.YAxis{Name: fig.YAxisTitle},
		Series:     series,
	}
	if fig.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	xs := lo.FlatMap(fig.Traces, func(t domain.Trace, _ int) []float64 { return t.X })
	ys := lo.FlatMap(fig.Traces, func(t domain.Trace, _ int) []float64 { return t.Y })
	if len(xs) == 0 || len(ys) == 0 {
		return fmt.Errorf("figure has no points")
	}
	if rng, ok := paddedRange(xs); ok {
		ch.XAxis.Range = rng
	}
	if rng, ok := paddedRange(ys); ok {
		ch.YAxis.Range = rng
	}
	return ch.Render(chart.SVG, w)
}

// paddedRange returns a range around v when every value equals v. go-chart
// refuses to scale an axis whose min and max coincide.
func paddedRange(values []float64) (*chart.ContinuousRange, bool) {
	lowest, highest := lo.Min(values), lo.Max(values)
	if lowest != highest {
		return nil, false
	}
	return &chart.ContinuousRange{Min: lowest - 1, Max: highest + 1}, true
}

func pointStyle(color drawing.Color, t domain.Trace) chart.Style {
	size := t.MarkerSize
	if size <= 0 {
		size = 4
	}
	alpha := uint8(scatterAlpha)
	if t.MarkerOpacity > 0 && t.MarkerOpacity < 1 {
		alpha = uint8(t.MarkerOpacity * scatterAlpha)
	}
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    size / 2,
		DotColor:    color.WithAlpha(alpha),
	}
}

func (r *Renderer) bars(fig domain.Figure, w io.Writer) error {
	if len(fig.Traces) == 0 {
		return fmt.Errorf("histogram has no trace")
	}

	bins := fig.Traces[0].Bins
	bars := make([]chart.Value, 0, len(bins))
	for _, b := range bins {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%g", b.Start),
			Value: float64(b.Count),
		})
	}

	ch := chart.BarChart{
		Title:      fig.Title,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   r.Width / (len(bars) + 2),
		BarSpacing: 1,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Name: fig.YAxisTitle},
		Bars:       bars,
	}
	return ch.Render(chart.SVG, w)
}

func (r *Renderer) pie(fig domain.Figure, w io.Writer) error {
	if len(fig.Traces) == 0 {
		return fmt.Errorf("pie has no trace")
	}

	t := fig.Traces[0]
	values := make([]chart.Value, 0, len(t.Labels))
	for i, label := range t.Labels {
		if i < len(t.Percents) && t.TextInfo == "percent+label" {
			label = fmt.Sprintf("%s %.1f%%", label, t.Percents[i])
		}
		values = append(values, chart.Value{Label: label, Value: t.Values[i]})
	}

	ch := chart.PieChart{
		Title:  fig.Title,
		Width:  r.Height,
		Height: r.Height,
		Values: values,
	}
	return ch.Render(chart.SVG, w)
}

func (r *Renderer) placeholder(title string, w io.Writer) {
	fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
			`<text x="50%%" y="24" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>`+
			`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#888888">no data to display</text>`+
			`</svg>`,
		r.Width, r.Height, r.Width, r.Height, html.EscapeString(title))
}
