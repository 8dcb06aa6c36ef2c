// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Config holds scanner configuration.
type Config struct {
	// BasePath is the base directory for scanning (defaults to current directory)
	BasePath string

	// IncludePatterns are glob patterns for files to include (e.g., "**/*.py")
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files to exclude (e.g., "venv/**")
	ExcludePatterns []string
}

// Scanner discovers Python source files in a project.
type Scanner struct {
	config Config
}

// New creates a new Scanner with the given configuration.
func New(config Config) *Scanner {
	if config.BasePath == "" {
		config.BasePath = "."
	}
	if len(config.IncludePatterns) == 0 {
		config.IncludePatterns = []string{"**/*.py"}
	}

	return &Scanner{
		config: config,
	}
}

// Scan discovers all source files matching the configuration.
func (s *Scanner) Scan() ([]SourceFile, error) {
	basePath, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}
	return s.ScanPath(basePath)
}

// ScanPath scans a specific path for source files. A file path returns that
// single file when it matches; a directory is walked recursively.
func (s *Scanner) ScanPath(path string) ([]SourceFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("path does not exist: %s", absPath)
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		if s.shouldIncludeFile(absPath, info) {
			content, err := os.ReadFile(absPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read file: %w", err)
			}
			return []SourceFile{
				{
					Path:     absPath,
					Language: DetectLanguage(absPath),
					Content:  content,
					ModTime:  info.ModTime(),
				},
			}, nil
		}
		return nil, nil
	}

	var files []SourceFile
	err = filepath.WalkDir(absPath, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip inaccessible paths
			return nil
		}

		if d.IsDir() {
			relPath, _ := filepath.Rel(absPath, filePath)
			if s.shouldExcludeDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		if s.shouldIncludeFile(filePath, info) {
			content, err := os.ReadFile(filePath)
			if err != nil {
				// Skip files we can't read
				return nil
			}
			files = append(files, SourceFile{
				Path:     filePath,
				Language: DetectLanguage(filePath),
				Content:  content,
				ModTime:  info.ModTime(),
			})
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// FindAppFile returns the first scanned file that looks like a FastAPI
// application definition. Files named main.py win over other candidates.
func FindAppFile(files []SourceFile) (SourceFile, bool) {
	var candidate SourceFile
	found := false

	for _, f := range files {
		if !f.LooksLikeApp() {
			continue
		}
		if filepath.Base(f.Path) == "main.py" {
			return f, true
		}
		if !found {
			candidate = f
			found = true
		}
	}

	return candidate, found
}

// shouldIncludeFile checks if a file should be included based on patterns.
func (s *Scanner) shouldIncludeFile(filePath string, info fs.FileInfo) bool {
	if info.IsDir() {
		return false
	}

	if !IsSupportedFile(filePath) {
		return false
	}

	basePath, _ := filepath.Abs(s.config.BasePath)
	relPath, err := filepath.Rel(basePath, filePath)
	if err != nil {
		relPath = filepath.Base(filePath)
	}

	relPath = filepath.ToSlash(relPath)

	if s.matchesPatterns(relPath, s.config.ExcludePatterns) {
		return false
	}

	if len(s.config.IncludePatterns) > 0 {
		return s.matchesPatterns(relPath, s.config.IncludePatterns)
	}

	return true
}

// shouldExcludeDir checks if a directory should be excluded.
func (s *Scanner) shouldExcludeDir(relPath string) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	relPath = filepath.ToSlash(relPath)

	for _, pattern := range s.config.ExcludePatterns {
		dirPattern := strings.TrimSuffix(pattern, "/**")
		dirPattern = strings.TrimSuffix(dirPattern, "/*")

		if relPath == dirPattern {
			return true
		}

		matched, _ := doublestar.Match(pattern, relPath+"/dummy.py")
		if matched {
			return true
		}
	}

	return false
}

// matchesPatterns checks if a path matches any of the given patterns.
func (s *Scanner) matchesPatterns(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			// Invalid pattern, skip
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
