// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package util provides shared string helpers.
package util

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// ToPascalCase converts a snake_case or kebab-case identifier to PascalCase.
// For example: "sample_api" returns "SampleApi".
func ToPascalCase(s string) string {
	if s == "" {
		return s
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})

	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(titleCaser.String(strings.ToLower(part)))
	}
	return sb.String()
}

// ModuleName returns the Python module name for a file path, i.e. the base
// name without the .py extension. "app/main.py" returns "main".
func ModuleName(path string) string {
	base := path
	if idx := strings.LastIndexAny(base, `/\`); idx != -1 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ".py")
}
