package terminal

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/observability"
	"github.com/de-tools/covid-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/covid-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/covid-atlas/pkg/services/config"
	"github.com/de-tools/covid-atlas/pkg/services/render"
	"github.com/de-tools/covid-atlas/pkg/store/dataset"
	"github.com/spf13/cobra"
)

// LoadFunc fetches the dataset described by the settings.
type LoadFunc func(ctx context.Context, settings *config.Settings) (*domain.Dataset, error)

// CLI represents the command-line interface
type CLI struct {
	load      LoadFunc
	logOutput io.Writer
	reporters commands.Reporters
	rootCmd   *cobra.Command

	cfgPath     string
	sourcesPath string
	profile     string
	debug       bool
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer
	LogOutput io.Writer
	Load      LoadFunc
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Load == nil {
		opts.Load = LoadRemote
	}

	cli := &CLI{
		load:      opts.Load,
		logOutput: opts.LogOutput,
		reporters: commands.Reporters{
			"table": export.NewReporter(opts.Output),
			"plain": NewReporter(opts.Output),
		},
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "covidatlas",
		Short:         "Inspect the COVID-19 dashboard datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", "Path to a settings file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&cli.sourcesPath, "sources", config.DefaultSourcesPath(), "Path to the data sources file")
	cmd.PersistentFlags().StringVarP(&cli.profile, "profile", "p", "", "Data sources profile to use")
	cmd.PersistentFlags().BoolVar(&cli.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(commands.NewSummaryCmd(cli, cli.reporters))
	cmd.AddCommand(commands.NewCountsCmd(cli, cli.reporters))
	cmd.AddCommand(commands.NewRenderCmd(cli, render.NewRenderer()))

	return cmd
}

// Load resolves the settings from the root flags and loads the dataset.
func (cli *CLI) Load(ctx context.Context) (*domain.Dataset, domain.Sources, error) {
	settings, err := config.Resolve(ctx, cli.cfgPath, cli.sourcesPath, cli.profile)
	if err != nil {
		return nil, domain.Sources{}, err
	}

	logger := observability.NewLogger(cli.logOutput, cli.debug || settings.Server.Debug)
	ctx = logger.WithContext(ctx)

	ds, err := cli.load(ctx, settings)
	if err != nil {
		return nil, domain.Sources{}, err
	}
	return ds, settings.Sources(), nil
}

// LoadRemote fetches both tables from the locations in the settings.
func LoadRemote(ctx context.Context, settings *config.Settings) (*domain.Dataset, error) {
	loader := dataset.NewLoader(settings.Sources(), dataset.SourceOptions{
		HTTPClient: &http.Client{Timeout: settings.Data.Timeout},
	})
	return loader.Load(ctx)
}
