// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package scanner provides file discovery for Python source scanning.
package scanner

import (
	"bytes"
	"path/filepath"
	"strings"
	"time"
)

// SourceFile represents a discovered source file.
type SourceFile struct {
	// Path is the absolute path to the file
	Path string

	// Language is the detected language identifier ("python")
	Language string

	// Content is the file content
	Content []byte

	// ModTime is the last modification time
	ModTime time.Time
}

// languageExtensions maps file extensions to language identifiers.
var languageExtensions = map[string]string{
	".py":  "python",
	".pyw": "python",
}

// DetectLanguage detects the programming language from a file path.
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := languageExtensions[ext]; ok {
		return lang
	}
	return ""
}

// IsSupportedFile checks if a file path has a supported extension.
func IsSupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := languageExtensions[ext]
	return ok
}

// LooksLikeApp reports whether the file plausibly defines a FastAPI
// application: it mentions a fastapi import and at least one route decorator.
// This is a cheap textual pre-filter; the analyzer does the real matching.
func (f SourceFile) LooksLikeApp() bool {
	if f.Language != "python" {
		return false
	}
	if !bytes.Contains(f.Content, []byte("fastapi")) && !bytes.Contains(f.Content, []byte("FastAPI")) {
		return false
	}
	return bytes.Contains(f.Content, []byte("@"))
}
