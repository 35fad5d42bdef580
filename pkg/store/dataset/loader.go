package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/observability"
	"github.com/rs/zerolog"
)

type Loader struct {
	sources domain.Sources
	opts    SourceOptions
}

func NewLoader(sources domain.Sources, opts SourceOptions) *Loader {
	return &Loader{sources: sources, opts: opts}
}

// Load fetches and parses both tables. Any failure is returned wrapped with
// the location that caused it.
func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	logger := zerolog.Ctx(ctx)

	cases, dropped, err := loadTable(ctx, l.sources.CasesURL, l.opts, ParseCases)
	if err != nil {
		return nil, err
	}
	observability.DatasetRows.WithLabelValues("cases", "kept").Set(float64(len(cases)))
	observability.DatasetRows.WithLabelValues("cases", "dropped").Set(float64(dropped))
	logger.Debug().
		Str("source", l.sources.CasesURL).
		Int("rows", len(cases)).
		Int("dropped", dropped).
		Msg("cases table loaded")

	patients, dropped, err := loadTable(ctx, l.sources.PatientsURL, l.opts, ParsePatients)
	if err != nil {
		return nil, err
	}
	observability.DatasetRows.WithLabelValues("patients", "kept").Set(float64(len(patients)))
	observability.DatasetRows.WithLabelValues("patients", "dropped").Set(float64(dropped))
	logger.Debug().
		Str("source", l.sources.PatientsURL).
		Int("rows", len(patients)).
		Int("dropped", dropped).
		Msg("patients table loaded")

	return &domain.Dataset{Cases: cases, Patients: patients}, nil
}

func loadTable[T any](
	ctx context.Context,
	location string,
	opts SourceOptions,
	parse func(io.Reader) ([]T, int, error),
) ([]T, int, error) {
	src, err := NewSource(ctx, location, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", location, err)
	}

	body, err := src.Open(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", location, err)
	}
	defer body.Close()

	records, dropped, err := parse(body)
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", location, err)
	}
	return records, dropped, nil
}
