// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Domain tells whether a data token named a plain primitive scalar type or a
// depth/channel structured element type.
type Domain int

const (
	// Primitive data tokens are one of "bool", "int", "float", "double".
	Primitive Domain = iota

	// Structured data tokens carry a depth code, optional channels and an
	// optional container kind, e.g. "8UC3" or "32F:FixedMatrix".
	Structured
)

// String implements fmt.Stringer.
func (d Domain) String() string {
	switch d {
	case Primitive:
		return "Primitive"
	case Structured:
		return "Structured"
	}
	return fmt.Sprintf("Domain(%d)", int(d))
}

// ContainerKind selects the container type a structured element is stored in,
// and with it the element access syntax.
type ContainerKind int

const (
	// ContainerBlock is the default multi-axis container. Elements are
	// accessed with the method form `recv.at<cType>(indices...)`.
	ContainerBlock ContainerKind = iota

	// ContainerFixedVector is a statically sized one-axis container,
	// accessed with the bracket form `recv[index]`.
	ContainerFixedVector

	// ContainerFixedMatrix is a statically sized two-axis container,
	// accessed with the call form `recv(indices...)`.
	ContainerFixedMatrix
)

// String returns the name used in the descriptor suffix and in declarations.
func (c ContainerKind) String() string {
	switch c {
	case ContainerBlock:
		return "Block"
	case ContainerFixedVector:
		return "FixedVector"
	case ContainerFixedMatrix:
		return "FixedMatrix"
	}
	return fmt.Sprintf("ContainerKind(%d)", int(c))
}

// MaxChannels is the largest channel count a structured data token may carry.
const MaxChannels = 4

// Data is the parsed trailing data token of a shape descriptor. It is
// immutable once parsed.
type Data struct {
	Domain    Domain
	DType     dtypes.DType
	Channels  int
	Container ContainerKind

	// Canonical is the token minus any container-kind suffix, verbatim: the
	// primitive name, or the depth/channel spec ("8UC1" stays "8UC1").
	Canonical string
}

// Structured data token: depth digits, signedness/float letter, optional
// channel count. The container-kind suffix is split off before matching.
var dataSpecRe = regexp.MustCompile(`^([0-9]+)([USF])(?:C([0-9]+))?$`)

// ParseData parses the trailing data token of a shape descriptor: either one
// of the 4 primitive scalar type names, or
// `<depth><U|S|F>(C<channels>)?(:<ContainerKind>)?`.
func ParseData(token string) (data Data, err error) {
	data.Channels = 1
	data.Container = ContainerBlock

	if dt, found := primitiveDTypes[token]; found {
		data.Domain = Primitive
		data.DType = dt
		data.Canonical = token
		return
	}

	spec := token
	if sep := strings.IndexByte(token, ':'); sep >= 0 {
		spec = token[:sep]
		switch suffix := token[sep+1:]; suffix {
		case ContainerBlock.String():
			// Default, explicit.
		case ContainerFixedVector.String():
			data.Container = ContainerFixedVector
		case ContainerFixedMatrix.String():
			data.Container = ContainerFixedMatrix
		default:
			err = errors.Errorf("invalid data token %q: unknown container kind %q", token, suffix)
			return
		}
	}

	groups := dataSpecRe.FindStringSubmatch(spec)
	if groups == nil {
		err = errors.Errorf("invalid data token %q: want a primitive type name or <depth><U|S|F>[C<channels>]", token)
		return
	}
	depth := groups[1] + groups[2]
	dt, found := depthDTypes[depth]
	if !found {
		err = errors.Errorf("invalid data token %q: unrecognized depth %q", token, depth)
		return
	}
	if groups[3] != "" {
		channels, convErr := strconv.Atoi(groups[3])
		if convErr != nil || groups[3][0] == '0' || channels > MaxChannels {
			err = errors.Errorf("invalid data token %q: channel count must be in 1..%d, got %q", token, MaxChannels, groups[3])
			return
		}
		data.Channels = channels
	}
	if data.Channels > 1 && data.Container != ContainerBlock {
		err = errors.Errorf("invalid data token %q: container kind %s requires a single channel", token, data.Container)
		return
	}
	data.Domain = Structured
	data.DType = dt
	data.Canonical = spec
	return
}

// CType returns the C++ scalar type of the element: the primitive name itself
// for the Primitive domain, the mapped scalar type for the Structured one.
func (d Data) CType() string {
	if d.Domain == Primitive {
		return d.Canonical
	}
	return CTypeOf(d.DType)
}

// ElementName returns the runtime array element type name of the port, used
// for registration and array views.
func (d Data) ElementName() string {
	return ElementNameOf(d.DType)
}

// Access renders the element access expression of the container kind:
// `recv.at<cType>(args...)` for Block, `recv[arg]` for FixedVector and
// `recv(args...)` for FixedMatrix.
func (d Data) Access(recv string, args ...string) string {
	switch d.Container {
	case ContainerFixedVector:
		if len(args) != 1 {
			exceptions.Panicf("shapes: FixedVector access takes exactly 1 index, got %d", len(args))
		}
		return fmt.Sprintf("%s[%s]", recv, args[0])
	case ContainerFixedMatrix:
		return fmt.Sprintf("%s(%s)", recv, strings.Join(args, ", "))
	}
	return fmt.Sprintf("%s.at<%s>(%s)", recv, d.CType(), strings.Join(args, ", "))
}

// String re-serializes the data token, container-kind suffix included when it
// is not the default.
func (d Data) String() string {
	if d.Domain == Structured && d.Container != ContainerBlock {
		return d.Canonical + ":" + d.Container.String()
	}
	return d.Canonical
}
