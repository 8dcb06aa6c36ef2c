// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types provides core data structures shared across the analysis pipeline.
package types

// Endpoint represents an HTTP endpoint extracted from FastAPI source code.
// Endpoints are constructed only by the analyzer and are immutable afterwards.
type Endpoint struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, PATCH)
	Method string `json:"method" yaml:"method"`

	// Path is the URL path pattern (e.g., "/users/{user_id}")
	Path string `json:"path" yaml:"path"`

	// FunctionName is the name of the decorated handler function
	FunctionName string `json:"functionName" yaml:"functionName"`

	// Parameters are the handler's positional parameters in declaration order
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// ReturnType is the best-effort return annotation name, or "Any"
	ReturnType string `json:"returnType" yaml:"returnType"`

	// Docstring is the handler's docstring, if present
	Docstring string `json:"docstring,omitempty" yaml:"docstring,omitempty"`

	// SourceFile is the file where this endpoint was defined
	SourceFile string `json:"sourceFile,omitempty" yaml:"sourceFile,omitempty"`

	// SourceLine is the line number where this endpoint was defined
	SourceLine int `json:"sourceLine,omitempty" yaml:"sourceLine,omitempty"`
}

// Parameter represents a handler function parameter.
type Parameter struct {
	// Name is the parameter name
	Name string `json:"name" yaml:"name"`

	// Type is the best-effort annotation name, defaulting to "Any"
	Type string `json:"type" yaml:"type"`

	// Required indicates if the parameter is required
	Required bool `json:"required" yaml:"required"`
}

// HTTPMethods maps lowercase FastAPI decorator method names to their
// uppercase HTTP forms. Only these five verbs produce endpoints.
var HTTPMethods = map[string]string{
	"get":    "GET",
	"post":   "POST",
	"put":    "PUT",
	"delete": "DELETE",
	"patch":  "PATCH",
}

// BodyMethods reports whether the given HTTP method carries a request body
// in the generated invalid-data tests.
func BodyMethods(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}
