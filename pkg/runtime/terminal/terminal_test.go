package terminal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Cases: []domain.CaseRecord{
			{Index: 0, NewReleased: 1, AccReleased: 1},
			{Index: 1, NewReleased: 2, NewDeceased: 1, AccReleased: 3, AccDeceased: 1},
		},
		Patients: []domain.PatientRecord{
			{Index: 0, Gender: "male", Age: 31, CurrentState: "released"},
			{Index: 2, Gender: "female", Age: 45, CurrentState: "isolated"},
		},
	}
}

func newTestCLI(load LoadFunc) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	var out, logs bytes.Buffer
	cli := NewCLI(Options{Output: &out, LogOutput: &logs, Load: load})
	return cli, &out, &logs
}

func TestCLI_Summary(t *testing.T) {
	var seen *config.Settings
	cli, out, _ := newTestCLI(func(_ context.Context, s *config.Settings) (*domain.Dataset, error) {
		seen = s
		return testDataset(), nil
	})
	cli.rootCmd.SetArgs([]string{"summary", "--format", "plain"})

	require.NoError(t, cli.Execute())

	require.NotNil(t, seen)
	assert.Equal(t, config.DefaultCasesURL, seen.Data.CasesURL)
	assert.Contains(t, out.String(), "COVID-19 Dataset Summary")
	assert.Contains(t, out.String(), "- patients: 2 rows")
}

func TestCLI_CountsTable(t *testing.T) {
	cli, out, _ := newTestCLI(func(context.Context, *config.Settings) (*domain.Dataset, error) {
		return testDataset(), nil
	})
	cli.rootCmd.SetArgs([]string{"counts", "--column", "gender", "--check"})

	require.NoError(t, cli.Execute())
	assert.Contains(t, out.String(), "Value Counts of gender")
	assert.Contains(t, out.String(), "| male")
	assert.Contains(t, out.String(), "check: ok")
}

func TestCLI_ProfileOverridesSources(t *testing.T) {
	sources := filepath.Join(t.TempDir(), "sources")
	require.NoError(t, os.WriteFile(sources, []byte("[local]\ncases_url = ./cases.csv\npatients_url = ./patient.csv\n"), 0o644))

	var seen *config.Settings
	cli, _, _ := newTestCLI(func(_ context.Context, s *config.Settings) (*domain.Dataset, error) {
		seen = s
		return testDataset(), nil
	})
	cli.rootCmd.SetArgs([]string{"summary", "--sources", sources, "--profile", "local"})

	require.NoError(t, cli.Execute())
	assert.Equal(t, "./cases.csv", seen.Data.CasesURL)
	assert.Equal(t, "./patient.csv", seen.Data.PatientsURL)
}

func TestCLI_LoadFailure(t *testing.T) {
	cli, _, _ := newTestCLI(func(context.Context, *config.Settings) (*domain.Dataset, error) {
		return nil, errors.New("fetch https://example.org/patient.csv: unexpected status 404")
	})
	cli.rootCmd.SetArgs([]string{"counts", "--column", "gender"})

	err := cli.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://example.org/patient.csv")
}

func TestLoadRemote(t *testing.T) {
	dir := t.TempDir()
	cases := filepath.Join(dir, "cases.csv")
	patients := filepath.Join(dir, "patient.csv")
	require.NoError(t, os.WriteFile(cases, []byte("new_released,new_deceased,acc_released,acc_deceased\n1,0,1,0\n"), 0o644))
	require.NoError(t, os.WriteFile(patients, []byte("gender,age,current_state\nmale,31,released\n"), 0o644))

	settings, err := config.LoadSettings("")
	require.NoError(t, err)
	settings.ApplySources(domain.Sources{CasesURL: cases, PatientsURL: patients})

	ds, err := LoadRemote(context.Background(), settings)
	require.NoError(t, err)
	assert.Len(t, ds.Cases, 1)
	assert.Len(t, ds.Patients, 1)
}
