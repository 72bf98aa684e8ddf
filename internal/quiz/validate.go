package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizzy/internal/validator"
)

// Issue is a data-quality problem found in a question bank. Issues are
// warnings: a session still runs with a flawed item, it just may never be
// answerable correctly.
type Issue struct {
	Index   int
	Field   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("item %d: %s: %s", i.Index+1, i.Field, i.Message)
}

// Validate checks every item and returns the problems found, in item order.
func Validate(items []Item) []Issue {
	var issues []Issue
	seenQuestion := make(map[string]int, len(items))

	for i, it := range items {
		fieldErrs, err := validator.Struct(it)
		if err != nil {
			issues = append(issues, Issue{Index: i, Field: "item", Message: err.Error()})
			continue
		}
		for _, fe := range fieldErrs {
			issues = append(issues, Issue{Index: i, Field: fe.Field, Message: fe.Message})
		}

		if it.Answer != "" && len(it.Options) > 0 && !it.HasAnswerOption() {
			issues = append(issues, Issue{
				Index:   i,
				Field:   "answer",
				Message: fmt.Sprintf("answer %q is not one of the options", it.Answer),
			})
		}

		seenOpt := make(map[string]bool, len(it.Options))
		for _, opt := range it.Options {
			if opt != "" && seenOpt[opt] {
				issues = append(issues, Issue{
					Index:   i,
					Field:   "options",
					Message: fmt.Sprintf("option %q appears more than once", opt),
				})
			}
			seenOpt[opt] = true
		}

		key := NormalizeQuestion(it.Question)
		if key == "" {
			continue
		}
		if first, ok := seenQuestion[key]; ok {
			issues = append(issues, Issue{
				Index:   i,
				Field:   "question",
				Message: fmt.Sprintf("same question text as item %d", first+1),
			})
			continue
		}
		seenQuestion[key] = i
	}
	return issues
}

// NormalizeQuestion folds case and whitespace for duplicate detection.
func NormalizeQuestion(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
