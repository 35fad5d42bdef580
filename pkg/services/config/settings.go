package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "COVIDASH"

	DefaultHost        = "127.0.0.1"
	DefaultPort        = 8053
	DefaultCasesURL    = "https://raw.githubusercontent.com/iffaxoo/MCM7003/data/cases.csv"
	DefaultPatientsURL = "https://raw.githubusercontent.com/iffaxoo/MCM7003/data/patient.csv"
)

type Settings struct {
	Server ServerSettings `mapstructure:"server"`
	Data   DataSettings   `mapstructure:"data"`
	DevOps DevOpsSettings `mapstructure:"devops"`
}

type ServerSettings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Debug           bool          `mapstructure:"debug"`
}

type DataSettings struct {
	CasesURL    string        `mapstructure:"cases_url"`
	PatientsURL string        `mapstructure:"patients_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// DevOpsSettings configures the metrics listener. An empty Addr disables it.
type DevOpsSettings struct {
	Addr string `mapstructure:"addr"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.debug", false)
	v.SetDefault("data.cases_url", DefaultCasesURL)
	v.SetDefault("data.patients_url", DefaultPatientsURL)
	v.SetDefault("data.timeout", 30*time.Second)
	v.SetDefault("devops.addr", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads settings from the optional file at path, then from
// COVIDASH_* environment variables. Anything unset keeps its default.
func LoadSettings(path string) (*Settings, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", s.Server.Port)
	}
	if s.Data.CasesURL == "" {
		return fmt.Errorf("data.cases_url is required")
	}
	if s.Data.PatientsURL == "" {
		return fmt.Errorf("data.patients_url is required")
	}
	if s.Data.Timeout <= 0 {
		return fmt.Errorf("invalid data.timeout %s", s.Data.Timeout)
	}
	return nil
}

func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Server.Host, strconv.Itoa(s.Server.Port))
}

func (s *Settings) Sources() domain.Sources {
	return domain.Sources{
		CasesURL:    s.Data.CasesURL,
		PatientsURL: s.Data.PatientsURL,
	}
}

// ApplySources overrides the data locations with the non-empty fields of src.
func (s *Settings) ApplySources(src domain.Sources) {
	if src.CasesURL != "" {
		s.Data.CasesURL = src.CasesURL
	}
	if src.PatientsURL != "" {
		s.Data.PatientsURL = src.PatientsURL
	}
}
