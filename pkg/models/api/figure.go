package api

// Figure follows plotly's figure shape so the page can hand it to
// Plotly.react unchanged.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Mode string `json:"mode,omitempty"`

	X     []float64 `json:"x,omitempty"`
	Y     []float64 `json:"y,omitempty"`
	Width []float64 `json:"width,omitempty"`

	Labels   []string  `json:"labels,omitempty"`
	Values   []float64 `json:"values,omitempty"`
	TextInfo string    `json:"textinfo,omitempty"`

	Marker *Marker `json:"marker,omitempty"`
}

type Marker struct {
	Size    float64 `json:"size,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

type Text struct {
	Text string `json:"text"`
}

type Axis struct {
	Title Text `json:"title"`
}

type Legend struct {
	Title Text `json:"title"`
}

type Layout struct {
	Title      Text     `json:"title"`
	XAxis      *Axis    `json:"xaxis,omitempty"`
	YAxis      *Axis    `json:"yaxis,omitempty"`
	Legend     *Legend  `json:"legend,omitempty"`
	ShowLegend bool     `json:"showlegend"`
	BarGap     *float64 `json:"bargap,omitempty"`
}
