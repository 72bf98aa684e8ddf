// Package quiz defines the question item exchanged with question banks and
// the load-time checks applied to it.
package quiz

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Item is one multiple-choice question. The JSON shape is the bank file
// format and must stay exactly these four fields.
type Item struct {
	Question    string   `json:"question" validate:"required"`
	Options     []string `json:"options" validate:"min=2,dive,required"`
	Answer      string   `json:"answer" validate:"required"`
	Explanation string   `json:"explanation"`
}

// IsCorrect reports whether option is this item's answer.
// The comparison is exact; no trimming or case folding.
func (it Item) IsCorrect(option string) bool {
	return option == it.Answer
}

// HasAnswerOption reports whether the answer appears among the options.
func (it Item) HasAnswerOption() bool {
	return slices.Contains(it.Options, it.Answer)
}

// Clone returns a deep copy so callers can reorder options freely.
func (it Item) Clone() Item {
	it.Options = slices.Clone(it.Options)
	return it
}

// ParseItems decodes a JSON array of items.
func ParseItems(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode question items: %w", err)
	}
	return items, nil
}
