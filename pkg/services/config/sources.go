package config

import (
	"context"
	"fmt"
	"os/user"
	"path/filepath"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// SourcesRegistry reads named data source profiles from an ini file:
//
//	[mirror]
//	cases_url = s3://covid/cases.csv
//	patients_url = s3://covid/patient.csv
type SourcesRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetSources(ctx context.Context, profile string) (domain.Sources, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewSourcesRegistry(path string) (SourcesRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *iniRegistry) GetSources(_ context.Context, profile string) (domain.Sources, error) {
	section, err := r.cfg.GetSection(profile)
	if err != nil {
		return domain.Sources{}, fmt.Errorf("profile %s not found", profile)
	}

	sources := domain.Sources{
		CasesURL:    section.Key("cases_url").String(),
		PatientsURL: section.Key("patients_url").String(),
	}
	if sources.CasesURL == "" && sources.PatientsURL == "" {
		return domain.Sources{}, fmt.Errorf("profile %s defines neither cases_url nor patients_url", profile)
	}
	return sources, nil
}

// DefaultSourcesPath is $HOME/.covidatlascfg, or the bare file name when the
// home directory is unknown.
func DefaultSourcesPath() string {
	usr, err := user.Current()
	if err != nil {
		return ".covidatlascfg"
	}
	return filepath.Join(usr.HomeDir, ".covidatlascfg")
}

// Resolve loads settings and, when a profile is named, overrides the data
// locations with the ones the profile defines.
func Resolve(ctx context.Context, settingsPath, sourcesPath, profile string) (*Settings, error) {
	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	if profile == "" {
		return settings, nil
	}

	registry, err := NewSourcesRegistry(sourcesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources file %s: %w", sourcesPath, err)
	}
	sources, err := registry.GetSources(ctx, profile)
	if err != nil {
		return nil, err
	}
	settings.ApplySources(sources)
	return settings, nil
}
