package api

import "encoding/json"

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Control struct {
	ID      string            `json:"id"`
	Kind    string            `json:"kind"`
	Options []Option          `json:"options,omitempty"`
	Value   any               `json:"value"`
	Min     *int              `json:"min,omitempty"`
	Max     *int              `json:"max,omitempty"`
	Step    *int              `json:"step,omitempty"`
	Marks   map[string]string `json:"marks,omitempty"`
	Output  string            `json:"output"`
}

type Panel struct {
	Tab        string    `json:"tab"`
	Heading    string    `json:"heading,omitempty"`
	Paragraphs []string  `json:"paragraphs"`
	Controls   []Control `json:"controls"`
}

type LayoutResponse struct {
	Title string   `json:"title"`
	Tabs  []Option `json:"tabs"`
	Panel Panel    `json:"panel"`
}

type UpdateRequest struct {
	Control string          `json:"control"`
	Value   json.RawMessage `json:"value"`
}

type UpdateResponse struct {
	Output  string           `json:"output"`
	Figure  *Figure          `json:"figure,omitempty"`
	Panel   *Panel           `json:"panel,omitempty"`
	Mounted []UpdateResponse `json:"mounted,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
