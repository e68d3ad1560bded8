// Package nepali validates and prepares user input before it is sent to the
// inference service.
package nepali

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// Blank is the marker users type in place of the missing word.
	Blank = "_"
	// DefaultMaskToken is the mask token expected by the fill-mask model.
	DefaultMaskToken = "<mask>"

	devanagariFirst = 'ऀ'
	devanagariLast  = 'ॿ'
)

// IsDevanagari reports whether r lies in the Devanagari block.
func IsDevanagari(r rune) bool {
	return r >= devanagariFirst && r <= devanagariLast
}

// IsNepaliText reports whether s contains at least one Devanagari rune once
// whitespace, punctuation and blank markers are ignored.  Danda and double
// danda are punctuation, so "।" alone is not Nepali text.
func IsNepaliText(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || r == '_' {
			continue
		}
		if IsDevanagari(r) {
			return true
		}
	}
	return false
}

// Normalize applies NFC and trims surrounding whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
