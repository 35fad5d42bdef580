package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
)

type TableConfig struct {
	NameWidth        int
	ValueWidth       int
	UnitWidth        int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:        28,
		ValueWidth:       14,
		UnitWidth:        10,
		DescriptionWidth: 44,
	}
}

// Reporter prints a report with its details laid out as a fixed-width table.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(name string, value interface{}, unit string, desc string) string {
			return fmt.Sprintf("| %-*s | %*v | %-*s | %-*s |",
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.ValueWidth, value,
				c.config.UnitWidth, unit,
				c.config.DescriptionWidth, truncate(desc, c.config.DescriptionWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2))
		},
	}

	tmpl := `
{{.Title}}
Cases: {{.Sources.CasesURL}}
Patients: {{.Sources.PatientsURL}}
{{range .Sections}}
=== {{.Title}} ===
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}
{{separator}}
{{formatRow "Name" "Value" "Unit" "Description"}}
{{separator}}
{{range .Details}}{{formatRow .Name .Value .Unit .Description}}
{{end}}{{separator}}
{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

// truncate shortens s to width runes, so multi-byte labels are never cut
// inside a character.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
