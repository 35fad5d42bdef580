package adapters

import (
	"strconv"

	"github.com/de-tools/covid-atlas/pkg/models/api"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/samber/lo"
)

func MapOptionDomainToApi(o domain.Option) api.Option {
	return api.Option{Label: o.Label, Value: o.Value}
}

func MapOptionsDomainToApi(opts []domain.Option) []api.Option {
	return lo.Map(opts, func(o domain.Option, _ int) api.Option {
		return MapOptionDomainToApi(o)
	})
}

// MapControlValueDomainToApi converts a control value to the JSON form the
// control emits back: series as a list of names, an age range as [min, max].
func MapControlValueDomainToApi(value any) any {
	switch v := value.(type) {
	case []domain.Series:
		return lo.Map(v, func(s domain.Series, _ int) string { return string(s) })
	case domain.ChartKind:
		return string(v)
	case domain.AgeRange:
		return []int{v.Min, v.Max}
	case domain.Tab:
		return string(v)
	}
	return value
}

func MapControlDomainToApi(c domain.Control) api.Control {
	res := api.Control{
		ID:      string(c.ID),
		Kind:    string(c.Kind),
		Options: MapOptionsDomainToApi(c.Options),
		Value:   MapControlValueDomainToApi(c.Value),
		Output:  string(c.Output),
	}

	if c.Kind == domain.ControlKindRangeSlider {
		res.Min, res.Max, res.Step = lo.ToPtr(c.Min), lo.ToPtr(c.Max), lo.ToPtr(c.Step)
	}
	if len(c.Marks) > 0 {
		res.Marks = make(map[string]string, len(c.Marks))
		for k, label := range c.Marks {
			res.Marks[strconv.Itoa(k)] = label
		}
	}
	return res
}

func MapPanelDomainToApi(p domain.Panel) api.Panel {
	res := api.Panel{
		Tab:        string(p.Tab),
		Heading:    p.Heading,
		Paragraphs: append([]string{}, p.Paragraphs...),
		Controls:   make([]api.Control, 0, len(p.Controls)),
	}
	for _, c := range p.Controls {
		res.Controls = append(res.Controls, MapControlDomainToApi(c))
	}
	return res
}
