package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/de-tools/covid-atlas/pkg/observability"
	"github.com/de-tools/covid-atlas/pkg/server"
	"github.com/de-tools/covid-atlas/pkg/services/config"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/de-tools/covid-atlas/pkg/services/render"
	"github.com/de-tools/covid-atlas/pkg/store/dataset"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	sourcesPath string
	profile     string
	debug       bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:           "web",
		Short:         "Start the COVID-19 dashboard web server",
		RunE:          runServer,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a settings file (yaml, json or toml)")
	rootCmd.Flags().StringVar(&sourcesPath, "sources", config.DefaultSourcesPath(),
		"Path to the data sources file (default is $HOME/.covidatlascfg)")
	rootCmd.Flags().StringVarP(&profile, "profile", "p", "",
		"Data sources profile to use")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := config.Resolve(ctx, cfgPath, sourcesPath, profile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	logger := observability.NewLogger(os.Stdout, debug || settings.Server.Debug)
	ctx = logger.WithContext(ctx)

	sources := settings.Sources()
	logger.Info().
		Str("cases", sources.CasesURL).
		Str("patients", sources.PatientsURL).
		Msg("loading dataset")

	loader := dataset.NewLoader(sources, dataset.SourceOptions{
		HTTPClient: &http.Client{Timeout: settings.Data.Timeout},
	})
	ds, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Info().
		Int("cases", len(ds.Cases)).
		Int("patients", len(ds.Patients)).
		Msg("dataset loaded")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bindings := dashboard.NewBindings(ds)
	loop := dashboard.NewLoop(bindings)
	go loop.Run(ctx)

	api := server.NewWebAPI(server.Config{
		Addr:            settings.Addr(),
		DevOpsAddr:      settings.DevOps.Addr,
		ShutdownTimeout: settings.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Loop:     loop,
			Decoder:  bindings,
			Renderer: render.NewRenderer(),
			Logger:   logger,
		},
	})

	err = api.Start(ctx)
	cancel()
	<-loop.Done()
	return err
}

