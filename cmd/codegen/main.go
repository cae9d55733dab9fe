// Package main renders a strategy JSON file as pseudocode or a trading
// script, for inspecting generator output without running the server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"strategy-studio/internal/codegen"
	"strategy-studio/internal/domain"
	"strategy-studio/internal/rules"
)

func main() {
	// Parse flags
	input := flag.String("input", "", "Path to a strategy JSON file (or - for stdin)")
	format := flag.String("format", "pseudocode", "Output format: pseudocode or script")
	skipValidation := flag.Bool("skip-validation", false, "Render even when the strategy fails validation")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := readStrategy(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading strategy: %v\n", err)
		os.Exit(1)
	}

	if !*skipValidation {
		if result := rules.ValidateStrategy(cfg); !result.OK {
			fmt.Fprintf(os.Stderr, "Strategy failed validation (%d errors):\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", e.Field, e.Message)
			}
			os.Exit(1)
		}
	}

	var code string
	switch *format {
	case "pseudocode":
		code, err = codegen.GeneratePseudocode(cfg)
	case "script":
		code, err = codegen.GenerateScript(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (want pseudocode or script)\n", *format)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering %s: %v\n", *format, err)
		os.Exit(1)
	}

	fmt.Print(code)
}

// readStrategy loads a StrategyConfig from a file or stdin.
func readStrategy(path string) (domain.StrategyConfig, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.StrategyConfig{}, err
	}

	var cfg domain.StrategyConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.StrategyConfig{}, fmt.Errorf("parse JSON: %w", err)
	}
	return cfg, nil
}
