package commands

import (
	"fmt"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/views"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type SummaryCmd struct {
	provider  DatasetProvider
	reporters Reporters
	format    string
	dbPath    string
}

func NewSummaryCmd(provider DatasetProvider, reporters Reporters) *cobra.Command {
	sc := &SummaryCmd{provider: provider, reporters: reporters}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the loaded cases and patients tables",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.format, "format", "table", "Output format (table or plain)")
	cmd.Flags().StringVar(&sc.dbPath, "db", duckdb.InMemory, "DuckDB database used for the table mirror")

	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	reporter, err := sc.reporters.Get(sc.format)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	ds, sources, err := sc.provider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	mirrorStore, closeDB, err := openMirror(ctx, ds, sc.dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	tables, err := mirrorStore.Summary(ctx)
	if err != nil {
		return fmt.Errorf("failed to summarize tables: %w", err)
	}

	report := &domain.Report{
		Title:   "COVID-19 Dataset Summary",
		Sources: sources,
	}

	tablesSection := domain.ReportSection{
		Title:   "Tables",
		Summary: map[string]interface{}{"tables": len(tables)},
	}
	for _, t := range tables {
		tablesSection.Details = append(tablesSection.Details, domain.ReportDetail{
			Name:        t.Table,
			Value:       t.Rows,
			Unit:        "rows",
			Description: fmt.Sprintf("index %d to %d", t.MinIdx, t.MaxIdx),
		})
	}
	report.Sections = append(report.Sections, tablesSection)

	if len(ds.Cases) > 0 {
		latest := ds.Cases[len(ds.Cases)-1]
		casesSection := domain.ReportSection{
			Title:   "Cases",
			Summary: map[string]interface{}{"latest_index": latest.Index},
		}
		for _, s := range domain.AllSeries {
			casesSection.Details = append(casesSection.Details, domain.ReportDetail{
				Name:        s.Label(),
				Value:       fmt.Sprintf("%.0f", latest.Value(s)),
				Unit:        "cases",
				Description: fmt.Sprintf("series %s at the latest index", s),
			})
		}
		report.Sections = append(report.Sections, casesSection)
	}

	if len(ds.Patients) > 0 {
		ages := lo.Map(ds.Patients, func(p domain.PatientRecord, _ int) int { return p.Age })
		patientsSection := domain.ReportSection{
			Title: "Patients",
			Summary: map[string]interface{}{
				"age_min": lo.Min(ages),
				"age_max": lo.Max(ages),
			},
		}
		for _, vc := range views.ValueCounts(columnValues(ds.Patients, "gender")) {
			patientsSection.Details = append(patientsSection.Details, domain.ReportDetail{
				Name:        vc.Value,
				Value:       vc.Count,
				Unit:        "patients",
				Description: "gender",
			})
		}
		report.Sections = append(report.Sections, patientsSection)
	}

	return reporter.Handle(report)
}
