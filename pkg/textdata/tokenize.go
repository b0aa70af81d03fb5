package textdata

import "strings"

// Tokenize splits text on whitespace. Punctuation stays attached to its
// word and surface forms are preserved, so joining the tokens with single
// spaces reproduces the original (single-spaced) text. Linguistic
// normalization is left to embedding providers.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
