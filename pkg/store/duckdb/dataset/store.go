package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/covid-atlas/pkg/models/store"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb"
	"github.com/samber/lo"
)

// CountableColumns are the patients columns ValueCounts accepts.
var CountableColumns = []string{"gender", "current_state", "age"}

// Store mirrors the loaded tables into DuckDB for SQL-side inspection.
type Store interface {
	Load(ctx context.Context, cases []store.CaseRow, patients []store.PatientRow) error
	ValueCounts(ctx context.Context, column string) ([]store.ValueCount, error)
	Summary(ctx context.Context) ([]store.TableSummary, error)
}

type datasetStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &datasetStore{db: db}, nil
}

// Load replaces the contents of both tables. It joins the transaction found in
// ctx, or runs in its own.
func (s *datasetStore) Load(ctx context.Context, cases []store.CaseRow, patients []store.PatientRow) error {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return s.load(ctx, tx, cases, patients)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := s.load(duckdb.WithTransaction(ctx, tx), tx, cases, patients); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *datasetStore) load(ctx context.Context, tx *sql.Tx, cases []store.CaseRow, patients []store.PatientRow) error {
	for _, table := range []string{"cases", "patients"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	casesStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cases (idx, new_released, new_deceased, acc_released, acc_deceased)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer casesStmt.Close()

	for _, r := range cases {
		_, err := casesStmt.ExecContext(ctx, r.Idx, r.NewReleased, r.NewDeceased, r.AccReleased, r.AccDeceased)
		if err != nil {
			return fmt.Errorf("insert case %d: %w", r.Idx, err)
		}
	}

	patientsStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO patients (idx, gender, age, current_state)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer patientsStmt.Close()

	for _, p := range patients {
		_, err := patientsStmt.ExecContext(ctx, p.Idx, p.Gender, p.Age, p.CurrentState)
		if err != nil {
			return fmt.Errorf("insert patient %d: %w", p.Idx, err)
		}
	}

	return nil
}

// ValueCounts counts distinct values of a patients column, most frequent first.
// Ties keep the order in which the values first appear in the table.
func (s *datasetStore) ValueCounts(ctx context.Context, column string) ([]store.ValueCount, error) {
	if !lo.Contains(CountableColumns, column) {
		return nil, fmt.Errorf("column %q cannot be counted, expected one of %v", column, CountableColumns)
	}

	query := fmt.Sprintf(`
		SELECT CAST(%[1]s AS VARCHAR) AS value, COUNT(*) AS n
		FROM patients
		GROUP BY %[1]s
		ORDER BY n DESC, MIN(idx)`, column)

	rows, err := duckdb.QuerierFor(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query value counts: %w", err)
	}
	defer rows.Close()

	counts := []store.ValueCount{}
	for rows.Next() {
		var vc store.ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, fmt.Errorf("scan value count: %w", err)
		}
		counts = append(counts, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate value counts: %w", err)
	}
	return counts, nil
}

func (s *datasetStore) Summary(ctx context.Context) ([]store.TableSummary, error) {
	query := `
		SELECT 'cases' AS tbl, COUNT(*), COALESCE(MIN(idx), 0), COALESCE(MAX(idx), 0) FROM cases
		UNION ALL
		SELECT 'patients' AS tbl, COUNT(*), COALESCE(MIN(idx), 0), COALESCE(MAX(idx), 0) FROM patients
		ORDER BY tbl`

	rows, err := duckdb.QuerierFor(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	var summaries []store.TableSummary
	for rows.Next() {
		var ts store.TableSummary
		if err := rows.Scan(&ts.Table, &ts.Rows, &ts.MinIdx, &ts.MaxIdx); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return summaries, nil
}
