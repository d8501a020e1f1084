// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

// Package codegen synthesizes the C++ source unit of an operator: the conversion
// loops between runtime array views and kernel containers (see Synthesize) and the
// surrounding registration, class, and Compute scaffolding (see Generate).
//
// Synthesis is pure and deterministic. Internals panic (gomlx/exceptions) on
// states ruled out by opspec validation; Generate converts those to errors, so
// callers only ever see an error return.
package codegen

import (
	"github.com/TopPano/ops-generator/opspec"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Output is the generated source unit of one operator.
type Output struct {
	// FileName is the base name the unit should be written to, "<op name>_op.cc".
	FileName string

	// Source is the complete file text.
	Source string

	// Warnings are non-fatal findings gathered during synthesis, one message per
	// affected port. The source is complete and usable despite them.
	Warnings []string
}

// Generate assembles the complete source unit of op, which must already have been
// validated (see opspec.UnmarshalOperator). sourceFile is quoted in the generated
// banner only; if empty it defaults to "<op name>.yaml".
func Generate(op *opspec.Operator, sourceFile string) (output *Output, err error) {
	if sourceFile == "" {
		sourceFile = op.Name + ".yaml"
	}
	err = exceptions.TryCatch[error](func() {
		source, warnings := assemble(op, sourceFile)
		output = &Output{
			FileName: op.Name + "_op.cc",
			Source:   source,
			Warnings: warnings,
		}
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "generating operator %q", op.Name)
	}
	return
}
