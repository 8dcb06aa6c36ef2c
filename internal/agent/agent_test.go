// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/api2test/api2test/internal/config"
)

const sampleApp = `from fastapi import FastAPI

app = FastAPI()

@app.get("/")
def root():
    """Root endpoint."""
    return {"message": "Hello"}

@app.post("/items")
def create_item(item: dict) -> dict:
    return item
`

func writeApp(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.py")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestRun_GeneratesArtifacts(t *testing.T) {
	appFile := writeApp(t, sampleApp)
	outDir := t.TempDir()

	cfg := config.Default()
	a := New(cfg)
	defer a.Close()

	result, err := a.Run(context.Background(), Options{
		AppFile:   appFile,
		OutputDir: outDir,
		Run:       false,
	})
	require.NoError(t, err)

	require.Len(t, result.Endpoints, 2)
	assert.Equal(t, "root", result.Endpoints[0].FunctionName)
	assert.Contains(t, result.TestCode, "def test_root(self):")
	assert.Contains(t, result.Documentation, "### GET /")

	testData, err := os.ReadFile(filepath.Join(outDir, TestFileName))
	require.NoError(t, err)
	assert.Equal(t, result.TestCode, string(testData))

	docData, err := os.ReadFile(filepath.Join(outDir, DocFileName))
	require.NoError(t, err)
	assert.Equal(t, result.Documentation, string(docData))

	// Execution skipped: no outcomes, no report
	assert.Nil(t, result.Outcomes)
	assert.Empty(t, result.ReportFile)
	_, err = os.Stat(filepath.Join(outDir, ReportFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_PlaceholderWhenNoEndpoints(t *testing.T) {
	appFile := writeApp(t, "def helper():\n    return 1\n")
	outDir := t.TempDir()

	cfg := config.Default()
	a := New(cfg)
	defer a.Close()

	result, err := a.Run(context.Background(), Options{
		AppFile:   appFile,
		OutputDir: outDir,
		Run:       false,
	})
	require.NoError(t, err)

	require.Len(t, result.Endpoints, 1)
	ep := result.Endpoints[0]
	assert.Equal(t, "GET", ep.Method)
	assert.Equal(t, "/", ep.Path)
	assert.Equal(t, "root", ep.FunctionName)
	assert.Equal(t, "dict", ep.ReturnType)
	assert.Equal(t, "Root endpoint", ep.Docstring)
}

func TestRun_PlaceholderOnAnalysisError(t *testing.T) {
	appFile := writeApp(t, "def broken(:\n    pass\n")
	outDir := t.TempDir()

	var logged []string
	cfg := config.Default()
	a := New(cfg)
	defer a.Close()

	result, err := a.Run(context.Background(), Options{
		AppFile:   appFile,
		OutputDir: outDir,
		Run:       false,
		Logf: func(format string, args ...interface{}) {
			logged = append(logged, format)
		},
	})
	require.NoError(t, err)

	// Analysis failure is reported, then the run degrades to the placeholder
	require.Len(t, result.Endpoints, 1)
	assert.Equal(t, "root", result.Endpoints[0].FunctionName)
	assert.Contains(t, logged, "Error analyzing app: %v")
}

func TestRun_WritesReport(t *testing.T) {
	appFile := writeApp(t, sampleApp)
	outDir := t.TempDir()

	cfg := config.Default()
	// cat echoes the generated source; its embedded marker lines become
	// outcomes without needing a Python interpreter
	cfg.Python = "cat"

	a := New(cfg)
	defer a.Close()

	result, err := a.Run(context.Background(), Options{
		AppFile:   appFile,
		OutputDir: outDir,
		Run:       true,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Outcomes)
	assert.NotEmpty(t, result.Outcomes)

	data, err := os.ReadFile(filepath.Join(outDir, ReportFileName))
	require.NoError(t, err)

	var rep report
	require.NoError(t, yaml.Unmarshal(data, &rep))
	assert.Equal(t, len(result.Outcomes), rep.Total)
	assert.Len(t, rep.Results, rep.Total)
}

func TestRun_MissingAppFile(t *testing.T) {
	outDir := t.TempDir()

	cfg := config.Default()
	a := New(cfg)
	defer a.Close()

	// A missing file degrades to the placeholder, same as analysis failure
	result, err := a.Run(context.Background(), Options{
		AppFile:   filepath.Join(t.TempDir(), "missing.py"),
		OutputDir: outDir,
		Run:       false,
	})
	require.NoError(t, err)
	require.Len(t, result.Endpoints, 1)
	assert.Equal(t, "root", result.Endpoints[0].FunctionName)
}

// fakeGenerator returns canned text for the delegated pipeline.
type fakeGenerator struct {
	tests string
	docs  string
}

func (f *fakeGenerator) GenerateTests(ctx context.Context, appSource string) (string, error) {
	return f.tests, nil
}

func (f *fakeGenerator) GenerateDocs(ctx context.Context, appSource string) (string, error) {
	return f.docs, nil
}

func TestRun_Delegated(t *testing.T) {
	appFile := writeApp(t, sampleApp)
	outDir := t.TempDir()

	cfg := config.Default()
	a := New(cfg)
	defer a.Close()

	result, err := a.Run(context.Background(), Options{
		AppFile:   appFile,
		OutputDir: outDir,
		Run:       true,
		LLMGenerator: &fakeGenerator{
			tests: "# llm tests\n",
			docs:  "# llm docs\n",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "# llm tests\n", result.TestCode)
	assert.Equal(t, "# llm docs\n", result.Documentation)

	// Delegated output is persisted verbatim and never executed
	assert.Nil(t, result.Outcomes)
	assert.Empty(t, result.ReportFile)

	data, err := os.ReadFile(filepath.Join(outDir, TestFileName))
	require.NoError(t, err)
	assert.Equal(t, "# llm tests\n", string(data))
}

func TestRun_DelegatedMissingFile(t *testing.T) {
	cfg := config.Default()
	a := New(cfg)
	defer a.Close()

	_, err := a.Run(context.Background(), Options{
		AppFile:      filepath.Join(t.TempDir(), "missing.py"),
		OutputDir:    t.TempDir(),
		LLMGenerator: &fakeGenerator{},
	})
	assert.Error(t, err)
}
