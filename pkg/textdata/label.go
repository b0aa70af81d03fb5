package textdata

import (
	"encoding/json"
	"fmt"
)

// Label is a scored label prediction.
type Label struct {
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// LabelDictionary maps label strings to stable indices. Insertion order is
// preserved so that head weights and the dictionary stay aligned across
// save/load.
type LabelDictionary struct {
	items   []string
	indices map[string]int
}

// NewLabelDictionary returns an empty dictionary.
func NewLabelDictionary() *LabelDictionary {
	return &LabelDictionary{indices: make(map[string]int)}
}

// LabelDictionaryOf returns a dictionary over the given labels in order.
func LabelDictionaryOf(labels ...string) *LabelDictionary {
	d := NewLabelDictionary()
	for _, l := range labels {
		d.Add(l)
	}
	return d
}

// Add inserts the label if absent and returns its index.
func (d *LabelDictionary) Add(label string) int {
	if idx, ok := d.indices[label]; ok {
		return idx
	}
	idx := len(d.items)
	d.items = append(d.items, label)
	d.indices[label] = idx
	return idx
}

// Index returns the index of a label.
func (d *LabelDictionary) Index(label string) (int, bool) {
	idx, ok := d.indices[label]
	return idx, ok
}

// Label returns the label at an index.
func (d *LabelDictionary) Label(idx int) (string, error) {
	if idx < 0 || idx >= len(d.items) {
		return "", fmt.Errorf("label index %d out of range (size %d)", idx, len(d.items))
	}
	return d.items[idx], nil
}

// Items returns the labels in index order.
func (d *LabelDictionary) Items() []string {
	return append([]string(nil), d.items...)
}

// Size returns the number of labels.
func (d *LabelDictionary) Size() int {
	return len(d.items)
}

// MarshalJSON encodes the dictionary as its ordered label list.
func (d *LabelDictionary) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.items)
}

// UnmarshalJSON decodes an ordered label list.
func (d *LabelDictionary) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	d.items = nil
	d.indices = make(map[string]int, len(items))
	for _, l := range items {
		d.Add(l)
	}
	return nil
}
