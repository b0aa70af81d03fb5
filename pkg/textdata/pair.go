package textdata

// TextPair is an ordered pair of text units treated as one classification
// example. The two units keep their identity after construction; embeddings
// attached to them may be recomputed at any time.
type TextPair struct {
	First  *TextUnit
	Second *TextUnit

	// Gold is the reference label for training and evaluation, empty for
	// unlabeled pairs.
	Gold string
}

// NewTextPair builds a pair from two raw texts.
func NewTextPair(first, second string) *TextPair {
	return &TextPair{First: NewTextUnit(first), Second: NewTextUnit(second)}
}

// NewLabeledPair builds a pair from two raw texts and a gold label.
func NewLabeledPair(first, second, gold string) *TextPair {
	p := NewTextPair(first, second)
	p.Gold = gold
	return p
}

// ClearEmbeddings drops attached embeddings from both units.
func (p *TextPair) ClearEmbeddings() {
	p.First.ClearEmbeddings()
	p.Second.ClearEmbeddings()
}
