package main

import (
	"fmt"
	"os"

	"github.com/de-tools/covid-atlas/pkg/runtime/terminal"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	cli := terminal.NewCLI(terminal.Options{
		Output:    os.Stdout,
		LogOutput: os.Stderr,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
