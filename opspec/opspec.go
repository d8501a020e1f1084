// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

// Package opspec loads and validates declarative operator specifications.
//
// One YAML document describes one operator: a snake_case name, named input
// and output ports annotated with shape descriptors, and typed attributes
// with default values:
//
//	name: warp_perspective
//	inputs:
//	  - name: src
//	    shape: [none, none, 8UC3]
//	  - name: transform
//	    shape: [3, 3, 64F:FixedMatrix]
//	outputs:
//	  - name: dst
//	    shape: [none, none, 8UC3]
//	attributes:
//	  - name: interpolation
//	    type: int = 1
//
// Decoding is strict: unknown YAML fields are errors. Validate parses every
// shape descriptor and attribute type expression and checks the identifier
// rules, so a returned Operator is ready for code generation.
package opspec

import (
	"bytes"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/TopPano/ops-generator/internal/casing"
	"github.com/TopPano/ops-generator/shapes"
	"github.com/TopPano/ops-generator/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Operator is one operator specification.
type Operator struct {
	Name       string       `yaml:"name"`
	Inputs     []*Port      `yaml:"inputs"`
	Outputs    []*Port      `yaml:"outputs"`
	Attributes []*Attribute `yaml:"attributes"`
}

// Port is one named input or output.
type Port struct {
	Name string `yaml:"name"`

	// Tokens is the shape descriptor as written in the specification.
	Tokens []string `yaml:"shape"`

	// Shape is the classified model of Tokens, filled in by Validate.
	Shape shapes.Shape `yaml:"-"`
}

// Attribute is one typed operator attribute.
type Attribute struct {
	Name string `yaml:"name"`

	// Type is the attribute type expression as written, e.g. "int = 1".
	Type string `yaml:"type"`

	// TypeName and Default are parsed from Type by Validate. Boolean
	// defaults canonicalize to "false"/"true", everything else is kept
	// verbatim.
	TypeName string `yaml:"-"`
	Default  string `yaml:"-"`
}

// Registration returns the canonical type expression used when registering
// the attribute, e.g. "int = 1".
func (a *Attribute) Registration() string {
	return a.TypeName + " = " + a.Default
}

// CType returns the C++ member type holding the attribute value.
func (a *Attribute) CType() string {
	if a.TypeName == "string" {
		return "std::string"
	}
	return a.TypeName
}

// Generated code binds ports and attributes as C++ variables, so their names
// must not collide with keywords or with the fixed names of the operator
// skeleton.
var reservedIdents = types.SetWith(
	"ctx", "kernels",
	"alignas", "alignof", "asm", "auto", "bool", "break", "case", "catch",
	"char", "class", "const", "constexpr", "continue", "default", "delete",
	"do", "double", "else", "enum", "explicit", "export", "extern", "false",
	"float", "for", "friend", "goto", "if", "inline", "int", "long",
	"mutable", "namespace", "new", "noexcept", "nullptr", "operator",
	"private", "protected", "public", "register", "return", "short",
	"signed", "sizeof", "static", "struct", "switch", "template", "this",
	"throw", "true", "try", "typedef", "typeid", "typename", "union",
	"unsigned", "using", "virtual", "void", "volatile", "while",
)

func checkIdent(what, name string) error {
	if !casing.IsSnakeIdent(name) {
		if snake := casing.ToSnake(name); casing.IsSnakeIdent(snake) && snake != name {
			return errors.Errorf("%s name %q is not snake_case, did you mean %q?", what, name, snake)
		}
		return errors.Errorf("%s name %q is not a snake_case identifier", what, name)
	}
	if reservedIdents.Has(name) {
		return errors.Errorf("%s name %q is reserved in generated code", what, name)
	}
	return nil
}

// Validate checks the specification and fills in the parsed shape of every
// port and the parsed type expression of every attribute.
func (op *Operator) Validate() error {
	if err := checkIdent("operator", op.Name); err != nil {
		return err
	}
	if len(op.Inputs)+len(op.Outputs) == 0 {
		return errors.Errorf("operator %q has no ports", op.Name)
	}

	seen := types.MakeSet[string](len(op.Inputs) + len(op.Outputs) + len(op.Attributes))
	for _, port := range slices.Concat(op.Inputs, op.Outputs) {
		if err := checkIdent("port", port.Name); err != nil {
			return errors.WithMessagef(err, "operator %q", op.Name)
		}
		if seen.Has(port.Name) {
			return errors.Errorf("operator %q declares port %q twice", op.Name, port.Name)
		}
		seen.Insert(port.Name)
		shape, err := shapes.Parse(port.Tokens)
		if err != nil {
			return errors.WithMessagef(err, "operator %q, port %q", op.Name, port.Name)
		}
		port.Shape = shape
	}

	for _, attr := range op.Attributes {
		if err := checkIdent("attribute", attr.Name); err != nil {
			return errors.WithMessagef(err, "operator %q", op.Name)
		}
		if seen.Has(attr.Name) {
			// Ports and attributes share the kernel argument namespace.
			return errors.Errorf("operator %q declares %q twice", op.Name, attr.Name)
		}
		seen.Insert(attr.Name)
		typeName, value, err := parseAttributeExpr(attr.Type)
		if err != nil {
			return errors.WithMessagef(err, "operator %q, attribute %q", op.Name, attr.Name)
		}
		attr.TypeName, attr.Default = typeName, value
	}
	return nil
}

// Default literal grammars per attribute type. Booleans are handled apart
// because they canonicalize.
var attrDefaultRes = map[string]*regexp.Regexp{
	"string": regexp.MustCompile(`^"(?:[^"\\]|\\.)*"$`),
	"int":    regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)$`),
	"float":  regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)\.[0-9]+$`),
}

// parseAttributeExpr parses `(string|int|float|bool) = <default>`, with
// whitespace around "=" tolerated.
func parseAttributeExpr(expr string) (typeName, value string, err error) {
	eq := strings.IndexByte(expr, '=')
	if eq < 0 {
		err = errors.Errorf("invalid attribute type expression %q: want \"<type> = <default>\"", expr)
		return
	}
	typeName = strings.TrimSpace(expr[:eq])
	value = strings.TrimSpace(expr[eq+1:])
	if typeName == "bool" {
		switch value {
		case "0", "false", "False":
			value = "false"
		case "1", "true", "True":
			value = "true"
		default:
			err = errors.Errorf("invalid attribute default %q for type bool", value)
		}
		return
	}
	re, found := attrDefaultRes[typeName]
	if !found {
		err = errors.Errorf("invalid attribute type expression %q: unknown type %q", expr, typeName)
		return
	}
	if !re.MatchString(value) {
		err = errors.Errorf("invalid attribute default %q for type %s", value, typeName)
		return
	}
	return
}

// UnmarshalOperator parses one YAML operator specification document and
// validates it.
func UnmarshalOperator(data []byte) (*Operator, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	op := &Operator{}
	if err := dec.Decode(op); err != nil {
		return nil, errors.Wrapf(err, "decoding operator specification")
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return op, nil
}

// LoadOperator reads and parses the operator specification at path.
func LoadOperator(path string) (*Operator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading operator specification")
	}
	op, err := UnmarshalOperator(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "operator specification %q", path)
	}
	return op, nil
}
