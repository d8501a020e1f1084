// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

package codegen

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/TopPano/ops-generator/codegen/cpp"
	"github.com/TopPano/ops-generator/internal/casing"
	"github.com/TopPano/ops-generator/opspec"
	"github.com/TopPano/ops-generator/shapes"
	"github.com/gomlx/exceptions"
)

// operatorData feeds operatorTemplate. Registration lines and class members come
// from the template; the Compute body is pre-rendered by computeBody because its
// nesting depth depends on each port's shape.
type operatorData struct {
	CamelName, SnakeName string
	SourceFile           string
	Inputs, Outputs      []portData
	Attrs                []attrData
	ComputeBody          string
}

// portData is the per-port slice of operatorData used by the registration block.
type portData struct {
	Name, ElementName string
}

// attrData is the per-attribute slice of operatorData. Registration is the
// complete C++ string literal of the .Attr line, quoted in Go so string defaults
// keep their embedded escapes.
type attrData struct {
	Name, CType  string
	Registration string
}

var operatorTemplate = template.Must(template.New("operator").Parse(
	`/***** File generated by opsgen from {{.SourceFile}}. Don't edit it directly. *****/

#include <cmath>
#include <vector>

#include "kernels/{{.SnakeName}}.h"
#include "runtime/op_kernel.h"

namespace ops {

REGISTER_OP("{{.CamelName}}")
{{- range .Inputs}}
    .Input("{{.Name}}: {{.ElementName}}")
{{- end}}
{{- range .Outputs}}
    .Output("{{.Name}}: {{.ElementName}}")
{{- end}}
{{- range .Attrs}}
    .Attr({{.Registration}})
{{- end}};

class {{.CamelName}}Op : public OpKernel {
 public:
  explicit {{.CamelName}}Op(OpKernelConstruction* ctx) : OpKernel(ctx) {
{{- range .Attrs}}
    ctx->GetAttr("{{.Name}}", &{{.Name}}_);
{{- end}}
  }

  void Compute(OpKernelContext* ctx) override {
{{.ComputeBody}}  }
{{- if .Attrs}}

 private:
{{- range .Attrs}}
  {{.CType}} {{.Name}}_;
{{- end}}
{{- end}}
};

REGISTER_KERNEL("{{.CamelName}}", {{.CamelName}}Op);

}  // namespace ops
`))

// viewRank is the rank of the runtime array view bound for a port. Scalars ride a
// one-element rank-1 view, everything else matches the shape's array rank.
func viewRank(shape shapes.Shape) int {
	return max(shape.ArrayRank, 1)
}

// computeBody renders the full Compute method body at class-method depth. Sections
// (one per input, declarations plus the kernel call, one per output) are separated
// by blank lines. Warnings raised while synthesizing any port are appended to
// warnings.
func computeBody(op *opspec.Operator, camelName string, warnings *[]string) string {
	sections := make([]string, 0, len(op.Inputs)+len(op.Outputs)+1)
	for idx, port := range op.Inputs {
		sections = append(sections, inputSection(port, idx, warnings))
	}
	sections = append(sections, kernelSection(op, camelName))
	for idx, port := range op.Outputs {
		sections = append(sections, outputSection(port, idx, warnings))
	}
	return strings.Join(sections, "\n")
}

// inputSection binds the port's array view and converts it into the container the
// kernel consumes.
func inputSection(port *opspec.Port, idx int, warnings *[]string) string {
	conv := Synthesize(port.Name, port.Shape, ArrayToContainer)
	*warnings = append(*warnings, conv.Warnings...)
	var b strings.Builder
	fmt.Fprintf(&b, "    // %s: %s\n", port.Name, port.Shape)
	fmt.Fprintf(&b, "    const auto %s_array = ctx->Input<%s, %d>(%d);\n",
		port.Name, port.Shape.Data.ElementName(), viewRank(port.Shape), idx)
	b.WriteString(cpp.Render(conv.Sizes, 2))
	b.WriteString(cpp.Render(conv.Copy, 2))
	return b.String()
}

// kernelSection declares the output containers and calls the kernel entry point.
// Inputs, attribute members, and outputs are passed in registration order; outputs
// are filled by reference.
func kernelSection(op *opspec.Operator, camelName string) string {
	var b strings.Builder
	for _, port := range op.Outputs {
		fmt.Fprintf(&b, "    %s %s;\n", port.Shape.Declaration, port.Name)
	}
	args := make([]string, 0, len(op.Inputs)+len(op.Attributes)+len(op.Outputs))
	for _, port := range op.Inputs {
		args = append(args, port.Name)
	}
	for _, attr := range op.Attributes {
		args = append(args, attr.Name+"_")
	}
	for _, port := range op.Outputs {
		args = append(args, port.Name)
	}
	fmt.Fprintf(&b, "    kernels::%s(%s);\n", camelName, strings.Join(args, ", "))
	return b.String()
}

// outputSection sizes the output from the filled container, allocates the output
// array view, and copies the container into it.
func outputSection(port *opspec.Port, idx int, warnings *[]string) string {
	conv := Synthesize(port.Name, port.Shape, ContainerToArray)
	*warnings = append(*warnings, conv.Warnings...)
	var b strings.Builder
	fmt.Fprintf(&b, "    // %s: %s\n", port.Name, port.Shape)
	b.WriteString(cpp.Render(conv.Sizes, 2))
	fmt.Fprintf(&b, "    auto %s_array = ctx->AllocateOutput<%s, %d>(%d, %s);\n",
		port.Name, port.Shape.Data.ElementName(), viewRank(port.Shape), idx, conv.ShapeExpr)
	b.WriteString(cpp.Render(conv.Copy, 2))
	return b.String()
}

// assemble renders the complete source unit for op. sourceFile is only quoted in
// the banner.
func assemble(op *opspec.Operator, sourceFile string) (source string, warnings []string) {
	camelName := casing.ToCamel(op.Name)
	attrs := make([]attrData, len(op.Attributes))
	for i, attr := range op.Attributes {
		attrs[i] = attrData{
			Name:         attr.Name,
			CType:        attr.CType(),
			Registration: strconv.Quote(attr.Name + ": " + attr.Registration()),
		}
	}
	data := operatorData{
		CamelName:   camelName,
		SnakeName:   op.Name,
		SourceFile:  sourceFile,
		Inputs:      registrationPorts(op.Inputs),
		Outputs:     registrationPorts(op.Outputs),
		Attrs:       attrs,
		ComputeBody: computeBody(op, camelName, &warnings),
	}
	var b strings.Builder
	err := operatorTemplate.Execute(&b, data)
	if err != nil {
		exceptions.Panicf("executing operator template for %q: %v", op.Name, err)
	}
	return b.String(), warnings
}

func registrationPorts(ports []*opspec.Port) []portData {
	data := make([]portData, len(ports))
	for i, port := range ports {
		data[i] = portData{Name: port.Name, ElementName: port.Shape.Data.ElementName()}
	}
	return data
}
