// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package agent sequences the analysis pipeline: extract endpoints, generate
// tests and documentation, optionally execute the tests, and persist the
// artifacts.
package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/api2test/api2test/internal/analyzer"
	"github.com/api2test/api2test/internal/config"
	"github.com/api2test/api2test/internal/docgen"
	"github.com/api2test/api2test/internal/executor"
	"github.com/api2test/api2test/internal/llm"
	"github.com/api2test/api2test/internal/testgen"
	"github.com/api2test/api2test/pkg/types"
)

// Artifact file names written into the output directory.
const (
	TestFileName   = "test_generated.py"
	DocFileName    = "api_documentation.md"
	ReportFileName = "test_report.yaml"
)

// Options configures a pipeline run.
type Options struct {
	// AppFile is the FastAPI application source file to analyze
	AppFile string

	// OutputDir is the directory artifacts are written to
	OutputDir string

	// Run determines whether generated tests are executed
	Run bool

	// LLMGenerator, when non-nil, replaces template generation with the
	// delegated variant. Test execution is skipped in that mode because
	// the marker-line contract only holds for template output.
	LLMGenerator llm.Generator

	// Logf receives human-readable progress lines; nil disables them
	Logf func(format string, args ...interface{})
}

// Result holds everything a pipeline run produced.
type Result struct {
	// Endpoints are the extracted (or placeholder) endpoint records
	Endpoints []types.Endpoint

	// TestCode is the generated test module source
	TestCode string

	// Documentation is the generated Markdown document
	Documentation string

	// Outcomes are the recovered test outcomes; nil when execution was skipped
	Outcomes []types.TestOutcome

	// TestFile and DocFile are the persisted artifact paths
	TestFile string
	DocFile  string

	// ReportFile is the persisted run report path, empty when tests did not run
	ReportFile string
}

// Agent runs the analysis pipeline.
type Agent struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	executor *executor.Executor
	docs     *docgen.Generator
}

// New creates an Agent with the given configuration.
func New(cfg *config.Config) *Agent {
	return &Agent{
		cfg:      cfg,
		analyzer: analyzer.New(),
		executor: &executor.Executor{
			Interpreter: cfg.Python,
			Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		docs: docgen.New(),
	}
}

// Close releases analyzer resources.
func (a *Agent) Close() {
	a.analyzer.Close()
}

// Run executes the full pipeline and returns the produced artifacts.
// Analysis failures are reported and degrade to the placeholder endpoint;
// only filesystem failures while persisting artifacts abort the run.
func (a *Agent) Run(ctx context.Context, opts Options) (*Result, error) {
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}

	if opts.LLMGenerator != nil {
		return a.runDelegated(ctx, opts, logf)
	}

	logf("Analyzing %s", opts.AppFile)
	endpoints, err := a.analyzer.AnalyzeFile(opts.AppFile)
	if err != nil {
		logf("Error analyzing app: %v", err)
		endpoints = nil
	}

	if len(endpoints) == 0 {
		logf("No endpoints found, using placeholder")
		endpoints = []types.Endpoint{placeholderEndpoint()}
	}
	logf("Found %d endpoints", len(endpoints))

	logf("Generating unit tests")
	testCode := testgen.New(opts.AppFile).Generate(endpoints)

	logf("Generating documentation")
	documentation := a.docs.Generate(endpoints)

	result := &Result{
		Endpoints:     endpoints,
		TestCode:      testCode,
		Documentation: documentation,
	}

	if opts.Run {
		logf("Running tests")
		result.Outcomes = a.executor.Run(ctx, testCode)
	}

	if err := a.persist(opts.OutputDir, result); err != nil {
		return nil, err
	}

	return result, nil
}

// runDelegated implements the LLM variant: the raw source is sent out and
// the returned text is persisted as-is, with no structural validation.
func (a *Agent) runDelegated(ctx context.Context, opts Options, logf func(string, ...interface{})) (*Result, error) {
	source, err := os.ReadFile(opts.AppFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read app file: %w", err)
	}

	logf("Generating unit tests via LLM")
	testCode, err := opts.LLMGenerator.GenerateTests(ctx, string(source))
	if err != nil {
		return nil, fmt.Errorf("LLM test generation failed: %w", err)
	}

	logf("Generating documentation via LLM")
	documentation, err := opts.LLMGenerator.GenerateDocs(ctx, string(source))
	if err != nil {
		return nil, fmt.Errorf("LLM documentation generation failed: %w", err)
	}

	result := &Result{
		TestCode:      testCode,
		Documentation: documentation,
	}

	if err := a.persist(opts.OutputDir, result); err != nil {
		return nil, err
	}

	return result, nil
}

// persist writes the artifacts under the output directory, creating it if
// absent.
func (a *Agent) persist(outputDir string, result *Result) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	result.TestFile = filepath.Join(outputDir, TestFileName)
	if err := os.WriteFile(result.TestFile, []byte(result.TestCode), 0o644); err != nil {
		return fmt.Errorf("failed to write test file: %w", err)
	}

	result.DocFile = filepath.Join(outputDir, DocFileName)
	if err := os.WriteFile(result.DocFile, []byte(result.Documentation), 0o644); err != nil {
		return fmt.Errorf("failed to write documentation file: %w", err)
	}

	if result.Outcomes != nil {
		result.ReportFile = filepath.Join(outputDir, ReportFileName)
		if err := writeReport(result.ReportFile, result.Outcomes); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

// report is the YAML shape of the persisted run report.
type report struct {
	Timestamp time.Time           `yaml:"timestamp"`
	Passed    int                 `yaml:"passed"`
	Failed    int                 `yaml:"failed"`
	Errors    int                 `yaml:"errors"`
	Total     int                 `yaml:"total"`
	Results   []types.TestOutcome `yaml:"results"`
}

// writeReport persists the run outcomes as YAML.
func writeReport(path string, outcomes []types.TestOutcome) error {
	passed, failed, errored := executor.Summarize(outcomes)

	data, err := yaml.Marshal(report{
		Timestamp: time.Now().UTC(),
		Passed:    passed,
		Failed:    failed,
		Errors:    errored,
		Total:     len(outcomes),
		Results:   outcomes,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// placeholderEndpoint is substituted when analysis finds nothing, so the
// generators never see an empty endpoint list.
func placeholderEndpoint() types.Endpoint {
	return types.Endpoint{
		Method:       "GET",
		Path:         "/",
		FunctionName: "root",
		ReturnType:   "dict",
		Docstring:    "Root endpoint",
	}
}
