// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fold normalizes Unicode text for searching and file naming.
//
// # Usage
//
// People search on the remove page matches "jose" against "José Núñez", and
// captured images are forwarded upstream under an ASCII name derived from the
// person (e.g. "jose-nunez.jpg").
package fold

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric, non-hyphen characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// Key returns the search form of s: accents removed, case folded, and
// surrounding space trimmed.
func Key(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), cases.Fold(), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.TrimSpace(result)
}

// Contains reports whether needle occurs in any of the fields after folding.
// An empty needle matches everything.
func Contains(needle string, fields ...string) bool {
	key := Key(needle)
	if key == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(Key(field), key) {
			return true
		}
	}
	return false
}

// Slug converts an arbitrary Unicode string into an ASCII, hyphenated name.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (accents).
// 2. Converts to lowercase.
// 3. Replaces non-alphanumeric characters with hyphens.
// 4. Collapses multiple hyphens and trims leading/trailing hyphens.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
