// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes parses and classifies the shape descriptors attached to
// operator ports.
//
// A shape descriptor is an ordered list of string tokens: zero or more axis
// tokens (see ParseDimension) terminated by one data token (see ParseData).
// Parse consumes the full list and returns a Shape, the canonical model the
// code generator works from: rank metrics, the dimension descriptors split
// into a vector prefix and a block suffix, the element data descriptor and
// the C++ declaration text of the container holding the port's values.
//
// Shapes classify into exactly one of four kinds:
//   - Scalar: no axis tokens, primitive data ("double").
//   - VectorOfPrimitive: only vector axes, primitive data
//     ("vector:none", "double").
//   - VectorOfBlock: vector axes then block axes, structured data
//     ("vector:none", "100", "8S").
//   - Block: only block axes, structured data ("none", "none", "8UC3").
//
// Anything else is a structural error: vector axes must form a contiguous
// prefix, primitive data cannot fill multi-axis blocks and structured data
// cannot stand alone as a scalar or fill a pure vector stack.
package shapes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the shape class of a port. Each valid Shape is exactly one of the
// four kinds; the classification decision is total over (vector axes, block
// axes, data domain).
type Kind int

const (
	InvalidKind Kind = iota

	// Scalar is a single primitive value.
	Scalar

	// VectorOfPrimitive is a (possibly nested) vector of primitive values.
	VectorOfPrimitive

	// VectorOfBlock is a (possibly nested) vector of multi-axis blocks.
	VectorOfBlock

	// Block is a single multi-axis block of structured elements.
	Block
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Scalar:
		return "Scalar"
	case VectorOfPrimitive:
		return "VectorOfPrimitive"
	case VectorOfBlock:
		return "VectorOfBlock"
	case Block:
		return "Block"
	}
	return fmt.Sprintf("InvalidKind(%d)", int(k))
}

// MaxAxes bounds the number of axis tokens of one descriptor. Loop synthesis
// recurses once per axis, so this is also its recursion bound.
const MaxAxes = 16

// Shape is the classified model of one port's shape descriptor. It is built
// once by Parse and immutable afterwards.
type Shape struct {
	Kind Kind

	// BlockRank is the number of axis tokens; ArrayRank adds one trailing
	// channel axis when the data is structured with more than one channel.
	ArrayRank int
	BlockRank int

	// VectorDims axes form the vector prefix of Dimensions, the remaining
	// BlockDims axes form the block suffix. VectorDims+BlockDims ==
	// BlockRank always.
	VectorDims int
	BlockDims  int

	// Dimensions holds the parsed axis tokens in descriptor order.
	Dimensions []Dimension

	Data Data

	// Declaration is the C++ type declaration of the container holding the
	// port, e.g. "vector<vector<double>>" or "FixedMatrix<float,3,3>".
	// ElementDeclaration is the per-element type after the vector prefix;
	// for Block shapes the two are the same.
	Declaration        string
	ElementDeclaration string
}

// BlockDimensions returns the block suffix of Dimensions, the axes after the
// last vector axis.
func (s Shape) BlockDimensions() []Dimension {
	return s.Dimensions[s.VectorDims:]
}

// String implements fmt.Stringer, re-serializing the descriptor prefixed by
// the kind.
func (s Shape) String() string {
	parts := make([]string, 0, len(s.Dimensions)+1)
	for _, dim := range s.Dimensions {
		parts = append(parts, dim.String())
	}
	parts = append(parts, s.Data.String())
	return fmt.Sprintf("%s(%s)", s.Kind, strings.Join(parts, ", "))
}

// Parse parses and classifies a full shape descriptor. The last token is the
// data token, every token before it is an axis token. Classifying the same
// tokens twice yields structurally equal Shapes.
func Parse(tokens []string) (shape Shape, err error) {
	if len(tokens) == 0 {
		err = errors.Errorf("empty shape descriptor: want at least a data token")
		return
	}
	shape.Data, err = ParseData(tokens[len(tokens)-1])
	if err != nil {
		return
	}
	shape.Dimensions = make([]Dimension, len(tokens)-1)
	for i, token := range tokens[:len(tokens)-1] {
		shape.Dimensions[i], err = ParseDimension(token)
		if err != nil {
			err = errors.Wrapf(err, "shape descriptor %v, axis %d", tokens, i)
			return
		}
	}

	shape.BlockRank = len(shape.Dimensions)
	if shape.BlockRank > MaxAxes {
		err = errors.Errorf("shape descriptor %v has %d axes, the maximum supported is %d", tokens, shape.BlockRank, MaxAxes)
		return
	}
	shape.ArrayRank = shape.BlockRank
	if shape.Data.Domain == Structured && shape.Data.Channels > 1 {
		shape.ArrayRank++
	}

	lastVector := -1
	for i, dim := range shape.Dimensions {
		if dim.IsVector {
			lastVector = i
		}
	}
	for i := 0; i < lastVector; i++ {
		if !shape.Dimensions[i].IsVector {
			err = errors.Errorf("shape descriptor %v: block axis %d precedes a vector axis, vector axes must form a contiguous prefix", tokens, i)
			return
		}
	}
	shape.VectorDims = lastVector + 1
	shape.BlockDims = shape.BlockRank - shape.VectorDims

	switch {
	case shape.VectorDims == 0 && shape.BlockRank == 0:
		if shape.Data.Domain == Structured {
			err = errors.Errorf("shape descriptor %v: structured data %q needs at least one axis, a bare structured scalar is not supported", tokens, shape.Data)
			return
		}
		shape.Kind = Scalar
	case shape.VectorDims == 0:
		if shape.Data.Domain == Primitive {
			err = errors.Errorf("shape descriptor %v: a multi-axis block cannot hold primitive data %q", tokens, shape.Data)
			return
		}
		shape.Kind = Block
	case shape.BlockDims == 0:
		if shape.Data.Domain == Structured {
			err = errors.Errorf("shape descriptor %v: a pure vector stack cannot hold structured data %q", tokens, shape.Data)
			return
		}
		shape.Kind = VectorOfPrimitive
	default:
		if shape.Data.Domain == Primitive {
			err = errors.Errorf("shape descriptor %v: mixed vector and block axes cannot hold primitive data %q", tokens, shape.Data)
			return
		}
		shape.Kind = VectorOfBlock
	}

	shape.ElementDeclaration, err = elementDeclaration(shape.Data, shape.BlockDimensions(), tokens)
	if err != nil {
		return
	}
	shape.Declaration = shape.ElementDeclaration
	for i := 0; i < shape.VectorDims; i++ {
		shape.Declaration = "vector<" + shape.Declaration + ">"
	}
	return
}

// elementDeclaration derives the C++ type of one element past the vector
// prefix. Fixed container kinds require every block axis to carry a literal
// size; a one-axis FixedMatrix is declared as a single-row matrix.
func elementDeclaration(data Data, blockDims []Dimension, tokens []string) (string, error) {
	if data.Domain == Primitive {
		return data.CType(), nil
	}
	if data.Container == ContainerBlock {
		return data.Container.String(), nil
	}

	sizes := make([]string, len(blockDims))
	for i, dim := range blockDims {
		if !dim.IsKnown() {
			return "", errors.Errorf("shape descriptor %v: %s requires a literal size on every block axis, axis %d has none", tokens, data.Container, i)
		}
		sizes[i] = strconv.Itoa(dim.Size)
	}
	if data.Container == ContainerFixedVector {
		if len(blockDims) > 1 {
			return "", errors.Errorf("shape descriptor %v: FixedVector holds a single axis, got %d block axes", tokens, len(blockDims))
		}
		return fmt.Sprintf("FixedVector<%s,%s>", data.CType(), sizes[0]), nil
	}
	if len(blockDims) > 2 {
		return "", errors.Errorf("shape descriptor %v: FixedMatrix holds at most two axes, got %d block axes", tokens, len(blockDims))
	}
	if len(blockDims) == 1 {
		sizes = append([]string{"1"}, sizes...)
	}
	return fmt.Sprintf("FixedMatrix<%s,%s>", data.CType(), strings.Join(sizes, ",")), nil
}
