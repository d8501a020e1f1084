// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TopPano/ops-generator/codegen/cpp"
	"github.com/TopPano/ops-generator/shapes"
	"github.com/gomlx/exceptions"
)

// Direction selects which side of the copy is the source.
type Direction int

const (
	// ArrayToContainer declares a container and fills it from a bound
	// runtime array view. Used for operator inputs.
	ArrayToContainer Direction = iota

	// ContainerToArray stores a filled container into a runtime array
	// view. Used for operator outputs; the view is allocated between the
	// size declarations and the copy loops, see Conversion.ShapeExpr.
	ContainerToArray
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case ArrayToContainer:
		return "ArrayToContainer"
	case ContainerToArray:
		return "ContainerToArray"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Conversion is the synthesized copy code of one port. Statement naming is
// stable per port: axis k uses the size variable `<port>_n<k>` and the loop
// index `<port>_i<k>`, so Sizes and Copy always agree.
type Conversion struct {
	// Sizes declares the per-axis size variables. For ArrayToContainer
	// they are `const int64_t` read from the array view dims (literals
	// for fixed container kinds); for ContainerToArray `const size_t`
	// read from the container, each query guarded by its predecessor so
	// an empty outer container short-circuits to zero-length axes.
	Sizes []cpp.Stmt

	// Copy holds the nested copy loops; for ArrayToContainer it starts
	// with the container declaration.
	Copy []cpp.Stmt

	// ShapeExpr is the runtime shape of the port's array view, e.g.
	// "{static_cast<int64_t>(dst_n0), 3}", valid once Sizes ran. Only
	// set for ContainerToArray.
	ShapeExpr string

	// Warnings are non-fatal findings, currently only the NaN padding
	// probe landing on an integral element type.
	Warnings []string
}

// Synthesize builds the copy code of one port from its classified shape.
// The shape must come from shapes.Parse; an unclassified shape panics.
func Synthesize(port string, shape shapes.Shape, dir Direction) Conversion {
	if shape.Kind == shapes.InvalidKind {
		exceptions.Panicf("codegen: cannot synthesize port %q from an unclassified shape", port)
	}
	syn := synthesizer{port: port, shape: shape}
	switch dir {
	case ArrayToContainer:
		return syn.toContainer()
	case ContainerToArray:
		return syn.toArray()
	}
	exceptions.Panicf("codegen: invalid copy direction %d for port %q", dir, port)
	return Conversion{}
}

type synthesizer struct {
	port  string
	shape shapes.Shape
}

func (s *synthesizer) sizeVar(axis int) string  { return fmt.Sprintf("%s_n%d", s.port, axis) }
func (s *synthesizer) indexVar(axis int) string { return fmt.Sprintf("%s_i%d", s.port, axis) }
func (s *synthesizer) arrayVar() string         { return s.port + "_array" }

func (s *synthesizer) arrayAccess(indices ...string) string {
	return fmt.Sprintf("%s(%s)", s.arrayVar(), strings.Join(indices, ", "))
}

// indexVars returns the index variables of axes [from, to).
func (s *synthesizer) indexVars(from, to int) []string {
	vars := make([]string, 0, to-from)
	for k := from; k < to; k++ {
		vars = append(vars, s.indexVar(k))
	}
	return vars
}

// receiver renders the container after depth vector indexings, e.g.
// "p[p_i0][p_i1]" for depth 2.
func (s *synthesizer) receiver(depth int) string {
	var b strings.Builder
	b.WriteString(s.port)
	for k := 0; k < depth; k++ {
		b.WriteString("[" + s.indexVar(k) + "]")
	}
	return b.String()
}

// zeroReceiver is receiver with all indices pinned to the first element,
// used to probe sizes of a rectangular nesting.
func (s *synthesizer) zeroReceiver(depth int) string {
	return s.port + strings.Repeat("[0]", depth)
}

func (s *synthesizer) fixed() bool {
	return s.shape.Data.Container != shapes.ContainerBlock
}

// declareElement declares one block element: allocated with its runtime axis
// sizes and canonical element type for the default container kind, default
// constructed for the statically sized kinds.
func (s *synthesizer) declareElement(name string) cpp.Stmt {
	shape := s.shape
	if s.fixed() {
		return cpp.Linef("%s %s;", shape.ElementDeclaration, name)
	}
	sizes := make([]string, shape.BlockDims)
	for j := range sizes {
		sizes[j] = s.sizeVar(shape.VectorDims + j)
	}
	return cpp.Linef("Block %s({%s}, %q);", name, strings.Join(sizes, ", "), shape.Data.Canonical)
}

func (s *synthesizer) toContainer() (conv Conversion) {
	shape := s.shape
	if shape.Kind == shapes.Scalar {
		conv.Copy = []cpp.Stmt{cpp.Linef("%s %s = %s;", shape.Declaration, s.port, s.arrayAccess("0"))}
		return
	}

	for k, dim := range shape.Dimensions {
		expr := fmt.Sprintf("%s.dim(%d)", s.arrayVar(), k)
		if s.fixed() && k >= shape.VectorDims {
			expr = strconv.Itoa(dim.Size)
		}
		conv.Sizes = append(conv.Sizes, cpp.Linef("const int64_t %s = %s;", s.sizeVar(k), expr))
	}

	if shape.Kind == shapes.Block {
		conv.Copy = append(conv.Copy, s.declareElement(s.port))
		conv.Copy = append(conv.Copy, s.blockFill(s.port)...)
		return
	}

	// VectorOfPrimitive and VectorOfBlock: the outer vector is pre-sized
	// when there is more than one vector layer, the innermost layer fills
	// by appending.
	if shape.VectorDims == 1 {
		conv.Copy = append(conv.Copy, cpp.Linef("%s %s;", shape.Declaration, s.port))
	} else {
		conv.Copy = append(conv.Copy, cpp.Linef("%s %s(%s);", shape.Declaration, s.port, s.sizeVar(0)))
	}
	conv.Copy = append(conv.Copy, s.vectorLoop(0, &conv))
	return
}

// vectorLoop builds the loop of vector layer k and everything below it.
func (s *synthesizer) vectorLoop(k int, conv *Conversion) cpp.Stmt {
	shape := s.shape
	v := shape.VectorDims
	var body []cpp.Stmt
	if k <= v-3 {
		// Layer k+1 is iterated below but never appended to: size it now.
		// The appending layer v-1 stays empty instead.
		body = append(body, cpp.Linef("%s.resize(%s);", s.receiver(k+1), s.sizeVar(k+1)))
	}
	if k == v-1 {
		body = append(body, s.appendLayer(conv)...)
	} else {
		body = append(body, s.vectorLoop(k+1, conv))
	}
	return cpp.For{IndexType: "int64_t", Index: s.indexVar(k), Bound: s.sizeVar(k), Body: body}
}

// appendLayer builds the body of the innermost vector loop: the optional
// early-stop probe, then one appended scalar (VectorOfPrimitive) or one
// allocated, filled and appended block element (VectorOfBlock).
func (s *synthesizer) appendLayer(conv *Conversion) []cpp.Stmt {
	shape := s.shape
	v := shape.VectorDims
	var stmts []cpp.Stmt

	// Beyond the first vector layer the array is rectangular with
	// NaN padding encoding shorter rows; stop this row at the first pad.
	if v >= 2 && !shape.Dimensions[v-1].IsKnown() {
		probe := s.indexVars(0, v)
		for j := 0; j < shape.BlockDims; j++ {
			probe = append(probe, "0")
		}
		if shape.Data.Channels > 1 {
			probe = append(probe, "0")
		}
		stmts = append(stmts, cpp.If{
			Cond: fmt.Sprintf("std::isnan(%s)", s.arrayAccess(probe...)),
			Body: []cpp.Stmt{cpp.Line("break;")},
		})
		if !shape.Data.DType.IsFloat() {
			conv.Warnings = append(conv.Warnings, fmt.Sprintf(
				"port %q: variable-length rows are probed with std::isnan but the element type is %s, padding will not be detected",
				s.port, shape.Data.ElementName()))
		}
	}

	if shape.Kind == shapes.VectorOfPrimitive {
		return append(stmts, cpp.Linef("%s.push_back(%s);",
			s.receiver(v-1), s.arrayAccess(s.indexVars(0, v)...)))
	}
	elem := s.port + "_elem"
	stmts = append(stmts, s.declareElement(elem))
	stmts = append(stmts, s.blockFill(elem)...)
	return append(stmts, cpp.Linef("%s.push_back(%s);", s.receiver(v-1), elem))
}

// blockFill builds the loops copying the block axes of the array into the
// block element recv. Channels unroll into one statement per channel, the
// channel index a trailing literal on both sides.
func (s *synthesizer) blockFill(recv string) []cpp.Stmt {
	shape := s.shape
	v, n := shape.VectorDims, shape.BlockRank
	var stmts []cpp.Stmt
	if shape.Data.Channels > 1 {
		for c := 0; c < shape.Data.Channels; c++ {
			ch := strconv.Itoa(c)
			stmts = append(stmts, cpp.Linef("%s = %s;",
				shape.Data.Access(recv, append(s.indexVars(v, n), ch)...),
				s.arrayAccess(append(s.indexVars(0, n), ch)...)))
		}
	} else {
		stmts = append(stmts, cpp.Linef("%s = %s;",
			shape.Data.Access(recv, s.indexVars(v, n)...),
			s.arrayAccess(s.indexVars(0, n)...)))
	}
	for k := n - 1; k >= v; k-- {
		stmts = []cpp.Stmt{cpp.For{IndexType: "int64_t", Index: s.indexVar(k), Bound: s.sizeVar(k), Body: stmts}}
	}
	return stmts
}

func (s *synthesizer) toArray() (conv Conversion) {
	shape := s.shape
	if shape.Kind == shapes.Scalar {
		conv.Copy = []cpp.Stmt{cpp.Linef("%s = %s;", s.arrayAccess("0"), s.port)}
		conv.ShapeExpr = "{1}"
		return
	}

	v := shape.VectorDims
	shapeParts := make([]string, 0, shape.ArrayRank)
	for k, dim := range shape.Dimensions {
		name := s.sizeVar(k)
		var expr string
		switch {
		case s.fixed() && k >= v:
			expr = strconv.Itoa(dim.Size)
			shapeParts = append(shapeParts, expr)
		case k < v:
			expr = s.zeroReceiver(k) + ".size()"
			shapeParts = append(shapeParts, fmt.Sprintf("static_cast<int64_t>(%s)", name))
		default:
			expr = fmt.Sprintf("%s.size(%d)", s.zeroReceiver(v), k-v)
			shapeParts = append(shapeParts, fmt.Sprintf("static_cast<int64_t>(%s)", name))
		}
		// Past the first vector layer every container query rides on its
		// predecessor being non-empty, so an empty container degrades to
		// zero-length axes instead of probing a missing first element.
		if k > 0 && v > 0 && !(s.fixed() && k >= v) {
			expr = fmt.Sprintf("%s == 0 ? 0 : %s", s.sizeVar(k-1), expr)
		}
		conv.Sizes = append(conv.Sizes, cpp.Linef("const size_t %s = %s;", name, expr))
	}
	if shape.Data.Channels > 1 {
		shapeParts = append(shapeParts, strconv.Itoa(shape.Data.Channels))
	}
	conv.ShapeExpr = "{" + strings.Join(shapeParts, ", ") + "}"

	n := shape.BlockRank
	var stmts []cpp.Stmt
	if shape.Kind == shapes.VectorOfPrimitive {
		stmts = []cpp.Stmt{cpp.Linef("%s = %s;",
			s.arrayAccess(s.indexVars(0, v)...), s.receiver(v))}
	} else if shape.Data.Channels > 1 {
		for c := 0; c < shape.Data.Channels; c++ {
			ch := strconv.Itoa(c)
			stmts = append(stmts, cpp.Linef("%s = %s;",
				s.arrayAccess(append(s.indexVars(0, n), ch)...),
				shape.Data.Access(s.receiver(v), append(s.indexVars(v, n), ch)...)))
		}
	} else {
		stmts = []cpp.Stmt{cpp.Linef("%s = %s;",
			s.arrayAccess(s.indexVars(0, n)...),
			shape.Data.Access(s.receiver(v), s.indexVars(v, n)...))}
	}
	for k := n - 1; k >= 0; k-- {
		stmts = []cpp.Stmt{cpp.For{IndexType: "size_t", Index: s.indexVar(k), Bound: s.sizeVar(k), Body: stmts}}
	}
	conv.Copy = stmts
	return
}
