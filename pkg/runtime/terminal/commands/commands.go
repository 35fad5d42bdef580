package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/covid-atlas/pkg/adapters"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/models/store"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb"
	mirror "github.com/de-tools/covid-atlas/pkg/store/duckdb/dataset"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const commandTimeout = 2 * time.Minute

// DatasetProvider loads the dataset the command works on.
type DatasetProvider interface {
	Load(ctx context.Context) (*domain.Dataset, domain.Sources, error)
}

type ReportHandler interface {
	Handle(report *domain.Report) error
}

// Reporters maps an output format name to its reporter.
type Reporters map[string]ReportHandler

func (r Reporters) Get(format string) (ReportHandler, error) {
	reporter, ok := r[format]
	if !ok {
		formats := lo.Keys(r)
		sort.Strings(formats)
		return nil, fmt.Errorf("unsupported format %q, expected one of %v", format, formats)
	}
	return reporter, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, commandTimeout)
}

// openMirror copies the dataset into a fresh DuckDB database.
func openMirror(ctx context.Context, ds *domain.Dataset, dbPath string) (mirror.Store, func() error, error) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	mirrorStore, err := mirror.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create dataset store: %w", err)
	}

	err = mirrorStore.Load(ctx,
		lo.Map(ds.Cases, func(r domain.CaseRecord, _ int) store.CaseRow {
			return adapters.MapCaseRecordDomainToStore(r)
		}),
		lo.Map(ds.Patients, func(p domain.PatientRecord, _ int) store.PatientRow {
			return adapters.MapPatientRecordDomainToStore(p)
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to mirror dataset: %w", err)
	}
	return mirrorStore, db.Close, nil
}
