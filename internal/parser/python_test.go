// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// basicAppCode is a representative FastAPI application for parsing tests.
const basicAppCode = `
from fastapi import FastAPI
import os

app = FastAPI()

@app.get("/items/{item_id}")
async def read_item(item_id: int, q: str = None):
    """Get an item by id."""
    return {"item_id": item_id}

@app.post("/items")
async def create_item(item: dict) -> dict:
    return item
`

// classMethodCode exercises decorated methods inside a class body.
const classMethodCode = `
from fastapi import APIRouter

router = APIRouter()

class ItemService:
    @router.get("/items")
    def list_items(self):
        """List all items."""
        return []
`

// brokenCode is syntactically invalid Python.
const brokenCode = `
def broken(:
    pass
`

func TestParse_DecoratedFunctions(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	mod, err := p.ParseSource("main.py", basicAppCode)
	require.NoError(t, err)
	defer mod.Close()

	assert.False(t, mod.HasSyntaxError())
	require.Len(t, mod.Functions, 2)

	readItem := mod.Functions[0]
	assert.Equal(t, "read_item", readItem.Name)
	assert.Equal(t, "Get an item by id.", readItem.Docstring)
	require.Len(t, readItem.Decorators, 1)

	dec := readItem.Decorators[0]
	assert.True(t, dec.IsCall)
	assert.True(t, dec.CalleeIsAttribute)
	assert.Equal(t, "app", dec.Object)
	assert.Equal(t, "get", dec.Method)
	assert.True(t, dec.HasPathArg)
	assert.Equal(t, "/items/{item_id}", dec.PathArg)

	require.Len(t, readItem.Params, 2)
	assert.Equal(t, "item_id", readItem.Params[0].Name)
	require.NotNil(t, readItem.Params[0].Annotation)
	assert.Equal(t, "int", readItem.Params[0].Annotation.Content(mod.Content))
	assert.Equal(t, "q", readItem.Params[1].Name)

	createItem := mod.Functions[1]
	assert.Equal(t, "create_item", createItem.Name)
	assert.Empty(t, createItem.Docstring)
	require.NotNil(t, createItem.ReturnAnnotation)
	assert.Equal(t, "dict", createItem.ReturnAnnotation.Content(mod.Content))
}

func TestParse_ClassMethods(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	mod, err := p.ParseSource("service.py", classMethodCode)
	require.NoError(t, err)
	defer mod.Close()

	require.Len(t, mod.Functions, 1)
	fn := mod.Functions[0]
	assert.Equal(t, "list_items", fn.Name)
	assert.Equal(t, "List all items.", fn.Docstring)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "self", fn.Params[0].Name)
	require.Len(t, fn.Decorators, 1)
	assert.Equal(t, "router", fn.Decorators[0].Object)
}

func TestParse_SyntaxError(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	mod, err := p.ParseSource("broken.py", brokenCode)
	require.NoError(t, err)
	defer mod.Close()

	assert.True(t, mod.HasSyntaxError())
}

func TestParse_Imports(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	mod, err := p.ParseSource("main.py", basicAppCode)
	require.NoError(t, err)
	defer mod.Close()

	assert.True(t, mod.HasImport("fastapi"))
	assert.True(t, mod.HasImport("os"))
	assert.False(t, mod.HasImport("flask"))
}

func TestParse_DecoratorKeywordArgs(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	mod, err := p.ParseSource("main.py", `
from fastapi import FastAPI
app = FastAPI()

@app.get("/users", response_model=UserList)
async def get_users():
    return []
`)
	require.NoError(t, err)
	defer mod.Close()

	require.Len(t, mod.Functions, 1)
	require.Len(t, mod.Functions[0].Decorators, 1)

	dec := mod.Functions[0].Decorators[0]
	assert.Equal(t, "/users", dec.PathArg)
	assert.Equal(t, "UserList", dec.KeywordArgs["response_model"])
}

func TestParseFile_Missing(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	_, err := p.ParseFile("does-not-exist.py")
	assert.Error(t, err)
}

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`"""docstring"""`, "docstring"},
		{`'''docstring'''`, "docstring"},
		{`f"/items/{id}"`, "/items/{id}"},
		{`r"\d+"`, `\d+`},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, trimQuotes(tt.input))
		})
	}
}
