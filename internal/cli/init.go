// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/api2test/api2test/internal/config"
	"github.com/api2test/api2test/internal/scanner"
)

var (
	initForce       bool
	initInteractive bool
	initPython      string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new api2test configuration file",
	Long: `Initialize a new api2test configuration file in the current directory.

This command creates an api2test.yaml file with sensible defaults
that you can customize for your project.

Features:
  - Detects the FastAPI application entry file
  - Sets up appropriate exclude patterns
  - Records the Python interpreter to use for test execution

Example:
  api2test init                        # Create config with defaults
  api2test init --force                # Overwrite existing config
  api2test init --interactive          # Interactive mode with prompts
  api2test init --python python3.12    # Set the interpreter`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
	initCmd.Flags().StringVar(&initPython, "python", "", "python interpreter for test execution")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := "api2test.yaml"

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	projectRoot, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}

	cfg := config.Default()
	if initPython != "" {
		cfg.Python = initPython
	}

	// Look for the application entry file so the config can mention it
	if app, ok := detectAppFile(projectRoot, cfg); ok {
		printInfo("Detected application file: %s", app)
	} else {
		printVerbose("No FastAPI application file detected")
	}

	if initInteractive && isTerminal() {
		cfg, err = interactiveInit(cfg)
		if err != nil {
			return fmt.Errorf("interactive init failed: %w", err)
		}
	}

	if err := os.WriteFile(configFile, []byte(buildConfigYAML(cfg)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Output: %s", cfg.Output)
	printVerbose("Python: %s", cfg.Python)

	return nil
}

// detectAppFile scans the project for a FastAPI application entry file.
func detectAppFile(projectRoot string, cfg *config.Config) (string, bool) {
	s := scanner.New(scanner.Config{
		BasePath:        projectRoot,
		IncludePatterns: cfg.Source.Include,
		ExcludePatterns: cfg.Source.Exclude,
	})

	files, err := s.Scan()
	if err != nil {
		return "", false
	}

	app, ok := scanner.FindAppFile(files)
	if !ok {
		return "", false
	}

	rel, err := filepath.Rel(projectRoot, app.Path)
	if err != nil {
		return app.Path, true
	}
	return rel, true
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// interactiveInit prompts the user for configuration options.
func interactiveInit(cfg *config.Config) (*config.Config, error) {
	reader := bufio.NewReader(os.Stdin)

	// Output directory
	fmt.Printf("Output directory [%s]: ", cfg.Output)
	outDir, _ := reader.ReadString('\n')
	outDir = strings.TrimSpace(outDir)
	if outDir != "" {
		cfg.Output = outDir
	}

	// Python interpreter
	fmt.Printf("Python interpreter [%s]: ", cfg.Python)
	python, _ := reader.ReadString('\n')
	python = strings.TrimSpace(python)
	if python != "" {
		cfg.Python = python
	}

	// Run tests after generation
	fmt.Printf("Run tests after generation (true/false) [%t]: ", cfg.Run)
	run, _ := reader.ReadString('\n')
	run = strings.TrimSpace(run)
	if run != "" {
		cfg.Run = run == "true"
	}

	return cfg, nil
}

// buildConfigYAML builds a YAML config with helpful comments.
func buildConfigYAML(cfg *config.Config) string {
	data, _ := yaml.Marshal(cfg)

	header := `# api2test configuration file
# https://github.com/api2test/api2test

`
	return header + string(data)
}
