package commands

import (
	"fmt"
	"strconv"

	"github.com/de-tools/covid-atlas/pkg/adapters"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/models/store"
	"github.com/de-tools/covid-atlas/pkg/services/views"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb"
	mirror "github.com/de-tools/covid-atlas/pkg/store/duckdb/dataset"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type CountsCmd struct {
	provider  DatasetProvider
	reporters Reporters
	column    string
	format    string
	dbPath    string
	check     bool
}

func NewCountsCmd(provider DatasetProvider, reporters Reporters) *cobra.Command {
	cc := &CountsCmd{provider: provider, reporters: reporters}
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Count distinct values of a patients column",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.column, "column", "", fmt.Sprintf("Patients column to count %v", mirror.CountableColumns))
	cmd.Flags().StringVar(&cc.format, "format", "table", "Output format (table or plain)")
	cmd.Flags().StringVar(&cc.dbPath, "db", duckdb.InMemory, "DuckDB database used for the table mirror")
	cmd.Flags().BoolVar(&cc.check, "check", false, "Verify the SQL counts against the counts the dashboard charts use")

	_ = cmd.MarkFlagRequired("column")

	return cmd
}

func (cc *CountsCmd) run(cmd *cobra.Command, _ []string) error {
	reporter, err := cc.reporters.Get(cc.format)
	if err != nil {
		return err
	}
	if !lo.Contains(mirror.CountableColumns, cc.column) {
		return fmt.Errorf("unsupported column %q. Supported columns: %v", cc.column, mirror.CountableColumns)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	ds, sources, err := cc.provider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	mirrorStore, closeDB, err := openMirror(ctx, ds, cc.dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	rows, err := mirrorStore.ValueCounts(ctx, cc.column)
	if err != nil {
		return fmt.Errorf("failed to count values: %w", err)
	}
	counts := lo.Map(rows, func(vc store.ValueCount, _ int) domain.ValueCount {
		return adapters.MapStoreValueCountToDomain(vc)
	})

	if cc.check {
		expected := views.ValueCounts(columnValues(ds.Patients, cc.column))
		if err := compareCounts(expected, counts); err != nil {
			return fmt.Errorf("value counts of %s disagree: %w", cc.column, err)
		}
	}

	total := lo.SumBy(counts, func(vc domain.ValueCount) int { return vc.Count })
	section := domain.ReportSection{
		Title: cc.column,
		Summary: map[string]interface{}{
			"distinct": len(counts),
			"rows":     total,
		},
	}
	if cc.check {
		section.Summary["check"] = "ok"
	}
	for _, vc := range counts {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        vc.Value,
			Value:       vc.Count,
			Unit:        "patients",
			Description: fmt.Sprintf("%.1f%%", 100*float64(vc.Count)/float64(total)),
		})
	}

	return reporter.Handle(&domain.Report{
		Title:    fmt.Sprintf("Value Counts of %s", cc.column),
		Sources:  sources,
		Sections: []domain.ReportSection{section},
	})
}

func columnValues(patients []domain.PatientRecord, column string) []string {
	return lo.Map(patients, func(p domain.PatientRecord, _ int) string {
		switch column {
		case "gender":
			return p.Gender
		case "current_state":
			return p.CurrentState
		}
		return strconv.Itoa(p.Age)
	})
}

func compareCounts(expected, actual []domain.ValueCount) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("expected %d distinct values, got %d", len(expected), len(actual))
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return fmt.Errorf("position %d: expected %s=%d, got %s=%d",
				i, expected[i].Value, expected[i].Count, actual[i].Value, actual[i].Count)
		}
	}
	return nil
}
