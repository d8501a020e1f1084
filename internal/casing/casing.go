// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

// Package casing converts between the snake_case identifiers of operator
// specifications and the CamelCase names of the generated code.
package casing

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var snakeIdentRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// IsSnakeIdent reports whether s is a snake_case identifier: a lowercase
// letter followed by lowercase letters, digits or underscores.
func IsSnakeIdent(s string) bool {
	return snakeIdentRe.MatchString(s)
}

// ToCamel converts a snake_case identifier to CamelCase:
// "warp_perspective" becomes "WarpPerspective".
//
// A cases.Caser is stateful, so one is built per call rather than shared.
func ToCamel(snake string) string {
	words := strings.Split(snake, "_")
	for i, word := range words {
		words[i] = cases.Title(language.English).String(word)
	}
	return strings.Join(words, "")
}

// ToSnake converts a CamelCase identifier to snake_case:
// "WarpPerspective" becomes "warp_perspective".
func ToSnake(camel string) string {
	var b strings.Builder
	for i, r := range camel {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
