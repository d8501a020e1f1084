// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

// Package cpp models synthesized C++ fragments as a small statement tree,
// rendered to indented source text only at the boundary. Keeping loop
// synthesis on the tree lets the copy-code matrix be tested node by node
// instead of by diffing strings.
package cpp

import (
	"fmt"
	"strings"
)

// Stmt is one statement of a generated fragment.
type Stmt interface {
	render(b *strings.Builder, depth int)
}

// Line is one verbatim statement (or comment) line.
type Line string

// Linef builds a Line with fmt.Sprintf.
func Linef(format string, args ...any) Line {
	return Line(fmt.Sprintf(format, args...))
}

// For is a counted loop from 0 inclusive to Bound exclusive.
type For struct {
	// IndexType is the C++ type of the loop variable: "int64_t" when
	// counting array axes, "size_t" when counting container sizes.
	IndexType string
	Index     string
	Bound     string
	Body      []Stmt
}

// If guards its body with a condition. There is no else branch.
type If struct {
	Cond string
	Body []Stmt
}

const indentStep = "  "

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentStep)
	}
}

func (l Line) render(b *strings.Builder, depth int) {
	indent(b, depth)
	b.WriteString(string(l))
	b.WriteByte('\n')
}

func (f For) render(b *strings.Builder, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, "for (%s %s = 0; %s < %s; %s++) {\n", f.IndexType, f.Index, f.Index, f.Bound, f.Index)
	for _, s := range f.Body {
		s.render(b, depth+1)
	}
	indent(b, depth)
	b.WriteString("}\n")
}

func (c If) render(b *strings.Builder, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, "if (%s) {\n", c.Cond)
	for _, s := range c.Body {
		s.render(b, depth+1)
	}
	indent(b, depth)
	b.WriteString("}\n")
}

// Render renders statements as source text at the given indent depth, two
// spaces per level. Every statement ends its own line.
func Render(stmts []Stmt, depth int) string {
	var b strings.Builder
	for _, s := range stmts {
		s.render(&b, depth)
	}
	return b.String()
}
