package dashboard

import (
	"strconv"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
)

const ageMarkStep = 10

// Panel returns a freshly built panel for the tab. Control values are always
// the declared defaults; nothing selected on a previous visit is carried over.
// An unknown tab yields an empty panel.
func Panel(tab domain.Tab) domain.Panel {
	defaults := domain.DefaultSelection()

	switch tab {
	case domain.TabHome:
		return domain.Panel{
			Tab:     tab,
			Heading: "Welcome to COVID-19 Dashboard",
			Paragraphs: []string{
				"This dashboard provides insights into COVID-19 cases and patient data in Indonesia.",
				"Explore the tabs to visualize different aspects of the pandemic.",
			},
		}
	case domain.TabCases:
		options := make([]domain.Option, 0, len(domain.AllSeries))
		for _, s := range domain.AllSeries {
			options = append(options, domain.Option{Label: s.Label(), Value: string(s)})
		}
		return domain.Panel{
			Tab:     tab,
			Heading: "COVID-19 Cases in Indonesia",
			Controls: []domain.Control{{
				ID:      domain.ControlCasesCheckbox,
				Kind:    domain.ControlKindChecklist,
				Options: options,
				Value:   defaults.Series,
				Output:  domain.OutputCasesFigure,
			}},
		}
	case domain.TabPatients:
		options := make([]domain.Option, 0, len(domain.AllChartKinds))
		for _, k := range domain.AllChartKinds {
			options = append(options, domain.Option{Label: k.Label(), Value: string(k)})
		}
		return domain.Panel{
			Tab:     tab,
			Heading: "COVID-19 Patients",
			Controls: []domain.Control{{
				ID:      domain.ControlGraphSelector,
				Kind:    domain.ControlKindRadio,
				Options: options,
				Value:   defaults.ChartKind,
				Output:  domain.OutputPatientChart,
			}},
		}
	case domain.TabConfirmedPatient:
		marks := make(map[int]string)
		for i := domain.MinAge; i <= domain.MaxAge; i += ageMarkStep {
			marks[i] = strconv.Itoa(i)
		}
		return domain.Panel{
			Tab:     tab,
			Heading: "Age distribution of Confirmed Patients",
			Controls: []domain.Control{{
				ID:     domain.ControlAgeRange,
				Kind:   domain.ControlKindRangeSlider,
				Value:  defaults.AgeRange,
				Min:    domain.MinAge,
				Max:    domain.MaxAge,
				Step:   1,
				Marks:  marks,
				Output: domain.OutputConfirmedAgeDist,
			}},
		}
	}
	return domain.Panel{Tab: tab}
}

func Tabs() []domain.Option {
	tabs := make([]domain.Option, 0, len(domain.AllTabs))
	for _, t := range domain.AllTabs {
		tabs = append(tabs, domain.Option{Label: t.Label(), Value: string(t)})
	}
	return tabs
}
