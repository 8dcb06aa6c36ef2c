// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package parser provides Python source parsing built on tree-sitter.
package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonParser parses Python source into structural facts about decorated
// functions. It is not safe for concurrent use.
type PythonParser struct {
	parser *sitter.Parser
}

// NewPythonParser creates a new Python parser.
func NewPythonParser() *PythonParser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &PythonParser{
		parser: parser,
	}
}

// Module represents a parsed Python source file.
type Module struct {
	// Path is the file path
	Path string

	// Content is the original source content
	Content []byte

	// Tree is the tree-sitter parse tree
	Tree *sitter.Tree

	// Root is the root node of the AST
	Root *sitter.Node

	// Functions contains every decorated function definition, in source order
	Functions []FunctionDef

	// Imports contains imported module names
	Imports []Import
}

// FunctionDef represents a decorated function definition.
type FunctionDef struct {
	// Name is the function name
	Name string

	// Decorators are the decorators applied to the function, in source order
	Decorators []Decorator

	// Params are the positional parameters, in declaration order
	Params []Param

	// ReturnAnnotation is the return type annotation node, nil if absent
	ReturnAnnotation *sitter.Node

	// Docstring is the function's docstring with surrounding whitespace
	// stripped, empty if absent
	Docstring string

	// Line is the source line number
	Line int
}

// Decorator represents a single decorator expression.
type Decorator struct {
	// IsCall indicates the decorator is a call expression
	IsCall bool

	// CalleeIsAttribute indicates the callee has the shape object.method
	CalleeIsAttribute bool

	// Object is the callee's object name (e.g., "app" in @app.get(...))
	Object string

	// Method is the callee's attribute name (e.g., "get")
	Method string

	// PathArg is the first positional argument when it is a string literal
	PathArg string

	// HasPathArg indicates a literal first positional argument was found
	HasPathArg bool

	// KeywordArgs holds keyword arguments as raw source text
	KeywordArgs map[string]string

	// Line is the source line number
	Line int
}

// Param represents a function parameter.
type Param struct {
	// Name is the parameter name
	Name string

	// Annotation is the type annotation node, nil if absent
	Annotation *sitter.Node
}

// Import represents an import statement.
type Import struct {
	// Module is the module being imported
	Module string

	// Names are the names imported from the module
	Names []string
}

// ParseSource parses Python source code from a string.
func (p *PythonParser) ParseSource(filename, source string) (*Module, error) {
	return p.Parse(filename, []byte(source))
}

// Parse parses Python source code from bytes.
func (p *PythonParser) Parse(filename string, content []byte) (*Module, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Python: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("failed to get root node")
	}

	mod := &Module{
		Path:    filename,
		Content: content,
		Tree:    tree,
		Root:    root,
	}

	mod.Imports = p.extractImports(root, content)
	mod.Functions = p.extractDecoratedFunctions(root, content)

	return mod, nil
}

// ParseFile parses a Python source file from disk.
func (p *PythonParser) ParseFile(path string) (*Module, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.Parse(path, content)
}

// HasSyntaxError reports whether the parse tree contains error nodes.
// tree-sitter recovers from malformed input instead of failing, so callers
// that need strict-parse semantics check this explicitly.
func (m *Module) HasSyntaxError() bool {
	return m.Root != nil && m.Root.HasError()
}

// HasImport checks if the module imports the given module name, directly or
// as a dotted prefix.
func (m *Module) HasImport(name string) bool {
	for _, imp := range m.Imports {
		if imp.Module == name || strings.HasPrefix(imp.Module, name+".") {
			return true
		}
	}
	return false
}

// Close releases the parse tree resources.
func (m *Module) Close() {
	if m.Tree != nil {
		m.Tree.Close()
	}
}

// Close cleans up parser resources.
func (p *PythonParser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// extractImports extracts all import statements from the AST.
func (p *PythonParser) extractImports(root *sitter.Node, content []byte) []Import {
	var imports []Import

	walk(root, func(node *sitter.Node) bool {
		switch node.Type() {
		case "import_statement":
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				if child.Type() == "dotted_name" {
					imports = append(imports, Import{Module: child.Content(content)})
				}
			}
		case "import_from_statement":
			imp := Import{}
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				switch child.Type() {
				case "dotted_name":
					if imp.Module == "" {
						imp.Module = child.Content(content)
					} else {
						imp.Names = append(imp.Names, child.Content(content))
					}
				case "identifier":
					imp.Names = append(imp.Names, child.Content(content))
				}
			}
			if imp.Module != "" {
				imports = append(imports, imp)
			}
		}
		return true
	})

	return imports
}

// extractDecoratedFunctions extracts every decorated function definition,
// including methods inside class bodies.
func (p *PythonParser) extractDecoratedFunctions(root *sitter.Node, content []byte) []FunctionDef {
	var functions []FunctionDef

	walk(root, func(node *sitter.Node) bool {
		if node.Type() != "decorated_definition" {
			return true
		}

		fn := p.parseDecoratedDefinition(node, content)
		if fn != nil {
			functions = append(functions, *fn)
		}
		// Keep walking: a decorated class can contain decorated methods
		return true
	})

	return functions
}

// parseDecoratedDefinition parses a decorated_definition node into a
// FunctionDef. Decorated classes yield nil.
func (p *PythonParser) parseDecoratedDefinition(node *sitter.Node, content []byte) *FunctionDef {
	fn := &FunctionDef{
		Line: int(node.StartPoint().Row) + 1,
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "decorator":
			fn.Decorators = append(fn.Decorators, p.parseDecorator(child, content))
		case "function_definition":
			p.parseFunctionDefinition(child, content, fn)
		}
	}

	if fn.Name == "" {
		return nil
	}

	return fn
}

// parseDecorator parses a decorator node, recording the call shape when the
// decorator is a call expression.
func (p *PythonParser) parseDecorator(node *sitter.Node, content []byte) Decorator {
	dec := Decorator{
		Line:        int(node.StartPoint().Row) + 1,
		KeywordArgs: map[string]string{},
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "call" {
			continue
		}
		dec.IsCall = true
		p.parseDecoratorCall(child, content, &dec)
	}

	return dec
}

// parseDecoratorCall fills in callee and argument details of a decorator call.
func (p *PythonParser) parseDecoratorCall(node *sitter.Node, content []byte, dec *Decorator) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "attribute":
			// Only the simple object.method shape is recognized; callees
			// like app.router.get or subscripted names are skipped.
			obj := child.ChildByFieldName("object")
			attr := child.ChildByFieldName("attribute")
			if obj != nil && attr != nil && obj.Type() == "identifier" {
				dec.CalleeIsAttribute = true
				dec.Object = obj.Content(content)
				dec.Method = attr.Content(content)
			}
		case "argument_list":
			p.parseDecoratorArguments(child, content, dec)
		}
	}
}

// parseDecoratorArguments records the first positional argument when it is a
// string literal, plus any keyword arguments.
func (p *PythonParser) parseDecoratorArguments(node *sitter.Node, content []byte, dec *Decorator) {
	sawPositional := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "(", ")", ",", "comment":
			continue
		case "keyword_argument":
			name := child.ChildByFieldName("name")
			value := child.ChildByFieldName("value")
			if name != nil && value != nil {
				dec.KeywordArgs[name.Content(content)] = value.Content(content)
			}
		default:
			if sawPositional {
				continue
			}
			sawPositional = true
			if child.Type() == "string" {
				dec.PathArg = trimQuotes(child.Content(content))
				dec.HasPathArg = true
			}
		}
	}
}

// parseFunctionDefinition parses a function_definition node.
func (p *PythonParser) parseFunctionDefinition(node *sitter.Node, content []byte, fn *FunctionDef) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			fn.Name = child.Content(content)
		case "parameters":
			fn.Params = p.parseParameters(child, content)
		case "type":
			// Return annotation after "->"
			fn.ReturnAnnotation = annotationExpr(child)
		case "block":
			fn.Docstring = extractDocstring(child, content)
		}
	}
}

// parseParameters parses the positional parameters of a function signature.
// Splat parameters (*args, **kwargs) are skipped.
func (p *PythonParser) parseParameters(node *sitter.Node, content []byte) []Param {
	var params []Param

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			params = append(params, Param{Name: child.Content(content)})
		case "typed_parameter", "typed_default_parameter":
			param := Param{}
			for j := 0; j < int(child.ChildCount()); j++ {
				sub := child.Child(j)
				switch sub.Type() {
				case "identifier":
					if param.Name == "" {
						param.Name = sub.Content(content)
					}
				case "type":
					param.Annotation = annotationExpr(sub)
				}
			}
			if param.Name != "" {
				params = append(params, param)
			}
		case "default_parameter":
			name := child.ChildByFieldName("name")
			if name != nil && name.Type() == "identifier" {
				params = append(params, Param{Name: name.Content(content)})
			}
		}
	}

	return params
}

// annotationExpr unwraps a "type" node to the annotation expression inside it.
func annotationExpr(typeNode *sitter.Node) *sitter.Node {
	if typeNode == nil || typeNode.NamedChildCount() == 0 {
		return typeNode
	}
	return typeNode.NamedChild(0)
}

// extractDocstring returns a function body's leading string literal, if any.
func extractDocstring(block *sitter.Node, content []byte) string {
	if block.NamedChildCount() == 0 {
		return ""
	}

	first := block.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}

	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}

	return strings.TrimSpace(trimQuotes(str.Content(content)))
}

// walk visits all nodes in the tree, calling fn for each node.
// If fn returns false, it stops recursing into that node's children.
func walk(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !fn(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), fn)
	}
}

// trimQuotes removes quote characters and string prefixes from a Python
// string literal.
func trimQuotes(s string) string {
	if strings.HasPrefix(s, `"""`) && strings.HasSuffix(s, `"""`) && len(s) >= 6 {
		return s[3 : len(s)-3]
	}
	if strings.HasPrefix(s, `'''`) && strings.HasSuffix(s, `'''`) && len(s) >= 6 {
		return s[3 : len(s)-3]
	}
	for _, prefix := range []string{"f", "r", "b", "u", "fr", "rf", "br", "rb"} {
		if strings.HasPrefix(s, prefix+`"`) || strings.HasPrefix(s, prefix+`'`) {
			s = s[len(prefix):]
			break
		}
	}
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
