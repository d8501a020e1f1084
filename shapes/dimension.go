// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// UnknownSize is the value of Dimension.Size for an axis whose extent is only
// known at runtime (the "none" size token).
const UnknownSize = -1

// Dimension describes one axis token of a shape descriptor: whether the axis
// belongs to the vector prefix or to the block suffix, and its size.
type Dimension struct {
	// IsVector is true for a "vector:"-prefixed token.
	IsVector bool

	// Size is UnknownSize or a literal >= 1. A literal 0 never parses.
	Size int
}

// IsKnown reports whether the axis has a literal compile-time size.
func (d Dimension) IsKnown() bool { return d.Size != UnknownSize }

// String re-serializes the axis token.
func (d Dimension) String() string {
	size := "none"
	if d.IsKnown() {
		size = strconv.Itoa(d.Size)
	}
	if d.IsVector {
		return "vector:" + size
	}
	return size
}

const vectorPrefix = "vector:"

// Size tokens are "none", "0" or a decimal without leading zeros. "0" is
// grammatical but rejected with its own error below.
var dimensionSizeRe = regexp.MustCompile(`^(?:none|0|[1-9][0-9]*)$`)

// ParseDimension parses one axis token: "none", "3", "vector:none",
// "vector:10". A size of 0 is reported distinctly from a malformed token.
func ParseDimension(token string) (dim Dimension, err error) {
	sizeToken := token
	if rest, found := strings.CutPrefix(token, vectorPrefix); found {
		dim.IsVector = true
		sizeToken = rest
	}
	if !dimensionSizeRe.MatchString(sizeToken) {
		err = errors.Errorf("invalid dimension token %q: want \"none\" or a decimal size, optionally prefixed by %q", token, vectorPrefix)
		return
	}
	if sizeToken == "none" {
		dim.Size = UnknownSize
		return
	}
	size, convErr := strconv.Atoi(sizeToken)
	if convErr != nil {
		err = errors.Wrapf(convErr, "invalid dimension token %q", token)
		return
	}
	if size == 0 {
		err = errors.Errorf("invalid dimension token %q: size must be > 0", token)
		return
	}
	dim.Size = size
	return
}
