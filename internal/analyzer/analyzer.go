// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package analyzer extracts HTTP endpoint definitions from FastAPI source.
package analyzer

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/api2test/api2test/internal/parser"
	"github.com/api2test/api2test/pkg/types"
)

// Analyzer walks decorated function definitions in Python source and emits
// one Endpoint per function carrying an HTTP verb decorator.
type Analyzer struct {
	pyParser *parser.PythonParser
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		pyParser: parser.NewPythonParser(),
	}
}

// Close releases parser resources.
func (a *Analyzer) Close() {
	a.pyParser.Close()
}

// AnalyzeFile extracts endpoints from a Python source file. Read and parse
// failures are returned as errors; callers decide whether to treat an empty
// result as fatal.
func (a *Analyzer) AnalyzeFile(path string) ([]types.Endpoint, error) {
	mod, err := a.pyParser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	defer mod.Close()

	return a.analyze(mod)
}

// AnalyzeSource extracts endpoints from Python source text.
func (a *Analyzer) AnalyzeSource(filename string, content []byte) ([]types.Endpoint, error) {
	mod, err := a.pyParser.Parse(filename, content)
	if err != nil {
		return nil, err
	}
	defer mod.Close()

	return a.analyze(mod)
}

func (a *Analyzer) analyze(mod *parser.Module) ([]types.Endpoint, error) {
	if mod.HasSyntaxError() {
		return nil, fmt.Errorf("syntax error in %s", mod.Path)
	}

	var endpoints []types.Endpoint
	for _, fn := range mod.Functions {
		ep := endpointFromFunction(fn, mod.Content, mod.Path)
		if ep != nil {
			endpoints = append(endpoints, *ep)
		}
	}

	return endpoints, nil
}

// endpointFromFunction matches a decorated function against the route
// decorator shape <identifier>.<verb>("<path>", ...). The verb match is
// case-insensitive and an empty path literal does not match. Functions
// without a matching decorator are skipped silently. When a function carries
// several matching decorators, the first one in decorator order wins and
// exactly one endpoint is produced.
func endpointFromFunction(fn parser.FunctionDef, content []byte, path string) *types.Endpoint {
	for _, dec := range fn.Decorators {
		if !dec.IsCall || !dec.CalleeIsAttribute {
			continue
		}

		method, ok := types.HTTPMethods[strings.ToLower(dec.Method)]
		if !ok || !dec.HasPathArg || dec.PathArg == "" {
			continue
		}

		return &types.Endpoint{
			Method:       method,
			Path:         dec.PathArg,
			FunctionName: fn.Name,
			Parameters:   extractParameters(fn, content),
			ReturnType:   returnType(fn, content),
			Docstring:    fn.Docstring,
			SourceFile:   path,
			SourceLine:   fn.Line,
		}
	}

	return nil
}

// extractParameters converts every positional parameter of the signature.
// Nothing is filtered here; consumers drop conventional names like "self".
func extractParameters(fn parser.FunctionDef, content []byte) []types.Parameter {
	params := make([]types.Parameter, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, types.Parameter{
			Name:     p.Name,
			Type:     TypeName(p.Annotation, content),
			Required: true,
		})
	}
	return params
}

// returnType applies the annotation policy to the declared return annotation.
func returnType(fn parser.FunctionDef, content []byte) string {
	return TypeName(fn.ReturnAnnotation, content)
}

// TypeName renders a type annotation node as a best-effort type name.
// Recognized shapes: a bare identifier (used directly), a literal value
// (stringified), and a one-level attribute access a.b (rendered as "a.b").
// Every other shape, including subscripted generics, unions, and quoted
// forward references, degrades to "Any" rather than failing.
func TypeName(node *sitter.Node, content []byte) string {
	if node == nil {
		return "Any"
	}

	switch node.Type() {
	case "identifier":
		return node.Content(content)
	case "integer", "float", "true", "false", "none":
		return node.Content(content)
	case "attribute":
		obj := node.ChildByFieldName("object")
		if obj != nil && obj.Type() == "identifier" {
			return node.Content(content)
		}
		return "Any"
	default:
		return "Any"
	}
}
