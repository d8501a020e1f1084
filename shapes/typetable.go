// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
)

// The three naming systems a port's element type lives in, all keyed by
// dtypes.DType: the descriptor depth code ("8U"), the C++ scalar type of the
// generated code ("uint8_t") and the runtime array element name ("uint8").
// The runtime element name doubles as the port's registration type string.
var (
	// depthDTypes maps the 7 recognized depth codes of a structured data token.
	depthDTypes = map[string]dtypes.DType{
		"8U":  dtypes.Uint8,
		"8S":  dtypes.Int8,
		"16U": dtypes.Uint16,
		"16S": dtypes.Int16,
		"32S": dtypes.Int32,
		"32F": dtypes.Float32,
		"64F": dtypes.Float64,
	}

	// primitiveDTypes maps the 4 primitive scalar type names of a data token.
	primitiveDTypes = map[string]dtypes.DType{
		"bool":   dtypes.Bool,
		"int":    dtypes.Int32,
		"float":  dtypes.Float32,
		"double": dtypes.Float64,
	}

	cTypes = map[dtypes.DType]string{
		dtypes.Bool:    "bool",
		dtypes.Uint8:   "uint8_t",
		dtypes.Int8:    "int8_t",
		dtypes.Uint16:  "uint16_t",
		dtypes.Int16:   "int16_t",
		dtypes.Int32:   "int32_t",
		dtypes.Float32: "float",
		dtypes.Float64: "double",
	}

	elementNames = map[dtypes.DType]string{
		dtypes.Bool:    "bool",
		dtypes.Uint8:   "uint8",
		dtypes.Int8:    "int8",
		dtypes.Uint16:  "uint16",
		dtypes.Int16:   "int16",
		dtypes.Int32:   "int32",
		dtypes.Float32: "float32",
		dtypes.Float64: "float64",
	}
)

// DTypeForDepth returns the DType for one of the 7 recognized depth codes
// ("8U", "16S", "64F", ...). It returns dtypes.InvalidDType and false for
// anything else.
func DTypeForDepth(depth string) (dtypes.DType, bool) {
	dt, found := depthDTypes[depth]
	if !found {
		return dtypes.InvalidDType, false
	}
	return dt, true
}

// DTypeForPrimitive returns the DType for one of the 4 primitive scalar type
// names ("bool", "int", "float", "double").
func DTypeForPrimitive(name string) (dtypes.DType, bool) {
	dt, found := primitiveDTypes[name]
	if !found {
		return dtypes.InvalidDType, false
	}
	return dt, true
}

// DepthOf is the reverse of DTypeForDepth. Notice the primitive names alias
// onto the same DTypes, so DepthOf(dtypes.Float32) == "32F" whichever naming
// system the shape descriptor used.
func DepthOf(dt dtypes.DType) (string, bool) {
	for depth, other := range depthDTypes {
		if other == dt {
			return depth, true
		}
	}
	return "", false
}

// CTypeOf returns the C++ scalar type generated code uses for dt, e.g.
// "uint8_t" for dtypes.Uint8. It panics for a DType outside the 8 the shape
// grammar can produce.
func CTypeOf(dt dtypes.DType) string {
	cType, found := cTypes[dt]
	if !found {
		exceptions.Panicf("shapes: no C++ scalar type for dtype %s", dt)
	}
	return cType
}

// ElementNameOf returns the runtime array element type name for dt, e.g.
// "float32" for dtypes.Float32. This is the name used in operator
// registration and as the template argument of runtime array views. It panics
// for a DType outside the 8 the shape grammar can produce.
func ElementNameOf(dt dtypes.DType) string {
	name, found := elementNames[dt]
	if !found {
		exceptions.Panicf("shapes: no runtime element name for dtype %s", dt)
	}
	return name
}
