package bankgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizzy/internal/quiz"
)

// Dedup drops items whose question repeats an earlier item or any text in
// avoid. Questions are compared after quiz.NormalizeQuestion.
func Dedup(items []quiz.Item, avoid []string) []quiz.Item {
	seen := make(map[string]bool, len(items)+len(avoid))
	for _, q := range avoid {
		seen[quiz.NormalizeQuestion(q)] = true
	}

	out := items[:0:0]
	for _, it := range items {
		key := quiz.NormalizeQuestion(it.Question)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// buildAvoid formats avoided questions for the prompt, respecting the max
// limit. Returns "None" if there are none.
func buildAvoid(questions []string, max int) string {
	if len(questions) == 0 {
		return "None"
	}

	// Keep only the most recent N questions.
	if max > 0 && len(questions) > max {
		questions = questions[len(questions)-max:]
	}

	var b strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
