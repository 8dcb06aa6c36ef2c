// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/api2test/api2test/internal/agent"
	"github.com/api2test/api2test/internal/config"
	"github.com/api2test/api2test/internal/executor"
	"github.com/api2test/api2test/internal/llm"
	"github.com/api2test/api2test/internal/scanner"
	"github.com/api2test/api2test/pkg/types"
)

var (
	generateNoRun  bool
	generateLLM    bool
	generatePython string
)

var generateCmd = &cobra.Command{
	Use:   "generate <app-file>",
	Short: "Generate tests and documentation from a FastAPI application",
	Long: `Generate unit test stubs and Markdown documentation by statically
analyzing a FastAPI application's source code.

The generate command parses the application file, extracts every function
decorated with an HTTP verb decorator (@app.get, @router.post, ...), and
produces a runnable test module plus a documentation file in the output
directory. Unless --no-run is given, the generated tests are executed with
the configured Python interpreter and a pass/fail tally is printed.

When the argument is a directory, it is scanned for the application entry
file.

Example:
  api2test generate main.py                 # Full pipeline
  api2test generate main.py --no-run        # Generation only
  api2test generate main.py --llm           # Delegate generation to an LLM
  api2test generate ./app --python python3.12`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateNoRun, "no-run", false, "skip executing the generated tests")
	generateCmd.Flags().BoolVar(&generateLLM, "llm", false, "delegate generation to the configured LLM provider")
	generateCmd.Flags().StringVar(&generatePython, "python", "", "python interpreter for test execution (default: python3)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply command-line overrides
	if output != "" {
		cfg.Output = output
	}
	if generatePython != "" {
		cfg.Python = generatePython
	}
	if generateNoRun {
		cfg.Run = false
	}
	if generateLLM {
		cfg.LLM.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appFile, err := resolveAppFile(args[0], cfg)
	if err != nil {
		return err
	}

	printVerbose("Configuration:")
	printVerbose("  App file: %s", appFile)
	printVerbose("  Output: %s", cfg.Output)
	printVerbose("  Python: %s", cfg.Python)
	printVerbose("  Run tests: %t", cfg.Run)
	printVerbose("  LLM mode: %t", cfg.LLM.Enabled)

	opts := agent.Options{
		AppFile:   appFile,
		OutputDir: cfg.Output,
		Run:       cfg.Run,
		Logf:      printInfo,
	}

	if cfg.LLM.Enabled {
		gen, err := newLLMGenerator(cfg)
		if err != nil {
			return err
		}
		opts.LLMGenerator = gen
	}

	a := agent.New(cfg)
	defer a.Close()

	result, err := a.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if result.Outcomes != nil {
		printResults(result.Outcomes)
	}

	printInfo("Files saved to %s/", cfg.Output)
	printInfo("  - %s", agent.TestFileName)
	printInfo("  - %s", agent.DocFileName)
	if result.ReportFile != "" {
		printInfo("  - %s", agent.ReportFileName)
	}

	return nil
}

// resolveAppFile turns the positional argument into a concrete application
// file, scanning directories for a FastAPI entry file.
func resolveAppFile(path string, cfg *config.Config) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("file %s not found", path)
	}

	if !info.IsDir() {
		return path, nil
	}

	s := scanner.New(scanner.Config{
		BasePath:        path,
		IncludePatterns: cfg.Source.Include,
		ExcludePatterns: cfg.Source.Exclude,
	})
	files, err := s.Scan()
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", path, err)
	}

	app, ok := scanner.FindAppFile(files)
	if !ok {
		return "", fmt.Errorf("no FastAPI application file found under %s", path)
	}

	printVerbose("Detected application file: %s", app.Path)
	return app.Path, nil
}

// newLLMGenerator builds the delegated generator from config, reading the
// API key from the configured environment variable.
func newLLMGenerator(cfg *config.Config) (llm.Generator, error) {
	apiKey := os.Getenv(cfg.LLM.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("LLM mode requires %s to be set", cfg.LLM.APIKeyEnv)
	}

	return llm.NewGenerator(llm.Config{
		Provider:      cfg.LLM.Provider,
		APIKey:        apiKey,
		Model:         cfg.LLM.Model,
		Temperature:   cfg.LLM.Temperature,
		TestMaxTokens: cfg.LLM.TestMaxTokens,
		DocMaxTokens:  cfg.LLM.DocMaxTokens,
	})
}

// printResults prints the formatted test outcome tally.
func printResults(outcomes []types.TestOutcome) {
	passed, failed, errored := executor.Summarize(outcomes)

	printInfo("")
	printInfo("%s", strings.Repeat("=", 50))
	printInfo("TEST RESULTS")
	printInfo("%s", strings.Repeat("=", 50))

	for _, o := range outcomes {
		printInfo("%s: %s", o.TestName, o.Status)
		if o.Error != "" {
			printInfo("   Error: %s", o.Error)
		}
	}

	printInfo("")
	printInfo("%s", strings.Repeat("-", 50))
	printInfo("SUMMARY")
	printInfo("   Passed: %d", passed)
	printInfo("   Failed: %d", failed)
	printInfo("   Errors: %d", errored)
	printInfo("   Total:  %d", len(outcomes))
	printInfo("%s", strings.Repeat("-", 50))
}
