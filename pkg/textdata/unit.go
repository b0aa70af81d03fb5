// Package textdata defines the text data model shared by embedding
// providers and classifiers: tokenized text units, ordered pairs of units,
// and label dictionaries.
package textdata

import (
	"fmt"
	"strings"
)

// Embedding is a dense vector representation attached to a text unit.
type Embedding []float32

// TextUnit is an ordered sequence of tokens with attachable named vector
// embeddings. Embedding providers mutate units in place by attaching
// vectors under their own name; callers should not assume units are copied.
type TextUnit struct {
	tokens     []string
	embeddings map[string]Embedding
}

// NewTextUnit tokenizes text and returns a unit over the resulting tokens.
func NewTextUnit(text string) *TextUnit {
	return &TextUnit{
		tokens:     Tokenize(text),
		embeddings: make(map[string]Embedding),
	}
}

// NewPreTokenized returns a unit over the given tokens without
// re-tokenizing them.
func NewPreTokenized(tokens []string) *TextUnit {
	return &TextUnit{
		tokens:     append([]string(nil), tokens...),
		embeddings: make(map[string]Embedding),
	}
}

// Tokens returns the unit's token sequence.
func (u *TextUnit) Tokens() []string {
	return u.tokens
}

// Text returns the tokens joined by single spaces.
func (u *TextUnit) Text() string {
	return strings.Join(u.tokens, " ")
}

// TokenizedString returns the token sequence as a single space-joined
// string, suitable for feeding back to providers that tokenize internally.
func (u *TextUnit) TokenizedString() string {
	return u.Text()
}

// SetEmbedding attaches (or overwrites) the named embedding on the unit.
func (u *TextUnit) SetEmbedding(name string, vec Embedding) {
	u.embeddings[name] = vec
}

// HasEmbedding reports whether the named embedding is attached.
func (u *TextUnit) HasEmbedding(name string) bool {
	_, ok := u.embeddings[name]
	return ok
}

// Embedding returns the concatenation of the named embeddings in the given
// order. It fails if any name has no attached vector.
func (u *TextUnit) Embedding(names ...string) (Embedding, error) {
	if len(names) == 1 {
		vec, ok := u.embeddings[names[0]]
		if !ok {
			return nil, fmt.Errorf("no embedding named %q attached to unit %q", names[0], u.Text())
		}
		return vec, nil
	}

	total := 0
	for _, name := range names {
		vec, ok := u.embeddings[name]
		if !ok {
			return nil, fmt.Errorf("no embedding named %q attached to unit %q", name, u.Text())
		}
		total += len(vec)
	}

	out := make(Embedding, 0, total)
	for _, name := range names {
		out = append(out, u.embeddings[name]...)
	}
	return out, nil
}

// ClearEmbeddings drops all attached embeddings, e.g. between epochs.
func (u *TextUnit) ClearEmbeddings() {
	u.embeddings = make(map[string]Embedding)
}
