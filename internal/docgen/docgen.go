// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package docgen generates Markdown API documentation from extracted
// endpoint records. Generation is pure and deterministic given input order.
package docgen

import (
	"fmt"
	"strings"

	"github.com/api2test/api2test/pkg/types"
)

// Generator produces a Markdown document for a set of endpoints.
type Generator struct{}

// New creates a new documentation Generator.
func New() *Generator {
	return &Generator{}
}

// Generate produces the complete Markdown document for the given endpoints.
func (g *Generator) Generate(endpoints []types.Endpoint) string {
	var sb strings.Builder

	sb.WriteString(docHeader)
	for _, ep := range endpoints {
		g.writeEndpointSection(&sb, ep)
	}
	sb.WriteString(schemasSection)
	sb.WriteString(examplesSection)

	return sb.String()
}

// writeEndpointSection emits one documentation section per endpoint.
// The conventional "self" parameter is filtered here, not by the analyzer.
func (g *Generator) writeEndpointSection(sb *strings.Builder, ep types.Endpoint) {
	fmt.Fprintf(sb, "### %s %s\n\n", ep.Method, ep.Path)

	if ep.Docstring != "" {
		fmt.Fprintf(sb, "**Description:** %s\n\n", ep.Docstring)
	}

	fmt.Fprintf(sb, "**Function:** `%s`\n\n", ep.FunctionName)

	params := visibleParams(ep.Parameters)
	if len(params) > 0 {
		sb.WriteString("**Parameters:**\n")
		for _, param := range params {
			required := "Optional"
			if param.Required {
				required = "Required"
			}
			fmt.Fprintf(sb, "- `%s` (%s) - %s\n", param.Name, param.Type, required)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(sb, "**Return Type:** %s\n\n", ep.ReturnType)

	sb.WriteString("**Example Request:**\n")
	if types.BodyMethods(ep.Method) {
		fmt.Fprintf(sb, "```http\n%s %s\nContent-Type: application/json\n\n{}\n```\n\n", ep.Method, ep.Path)
	} else {
		fmt.Fprintf(sb, "```http\n%s %s\n```\n\n", ep.Method, ep.Path)
	}

	sb.WriteString("**Example Response:**\n")
	sb.WriteString("```json\n{\n  \"status\": \"success\",\n  \"data\": {}\n}\n```\n\n")

	sb.WriteString("---\n\n")
}

// visibleParams drops the conventional "self" parameter.
func visibleParams(params []types.Parameter) []types.Parameter {
	out := make([]types.Parameter, 0, len(params))
	for _, p := range params {
		if p.Name == "self" {
			continue
		}
		out = append(out, p)
	}
	return out
}

const docHeader = `# FastAPI Application Documentation

## Overview
This document provides comprehensive technical documentation for the FastAPI application.

## API Endpoints

`

const schemasSection = `## Data Schemas

### Common Response Format
` + "```json" + `
{
  "status": "success|error",
  "data": {},
  "message": "string"
}
` + "```" + `

### Error Response Format
` + "```json" + `
{
  "detail": "Error message"
}
` + "```" + `

`

const examplesSection = `## Usage Examples

### Using curl
` + "```bash" + `
curl -X GET "http://localhost:8000/api/endpoint" \
     -H "Content-Type: application/json"
` + "```" + `

### Using Python requests
` + "```python" + `
import requests

response = requests.get("http://localhost:8000/api/endpoint")
print(response.json())
` + "```" + `

### Using JavaScript fetch
` + "```javascript" + `
fetch("http://localhost:8000/api/endpoint")
  .then(response => response.json())
  .then(data => console.log(data));
` + "```" + `

## Error Handling

The API uses standard HTTP status codes:
- ` + "`200`" + ` - Success
- ` + "`201`" + ` - Created
- ` + "`400`" + ` - Bad Request
- ` + "`404`" + ` - Not Found
- ` + "`422`" + ` - Validation Error
- ` + "`500`" + ` - Internal Server Error

`
