package bankgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice quiz questions.

Rules:
- Every question has exactly the requested number of options and exactly one correct option.
- The answer field must be copied character for character from one of the options.
- Options within a question must be distinct. Distractors should be plausible, not jokes.
- Do not use "all of the above" or "none of the above".
- Questions must be self-contained; never refer to another question.
- The explanation says in one or two sentences why the answer is correct.
- Write everything in the requested language.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage constructs the user message for one attempt. want is
// how many questions this attempt should produce and rejection is the
// reason the previous attempt fell short, if any.
func buildUserMessage(req Request, want int, avoid []string, rejection string, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Language: %s\n", req.Language)
	fmt.Fprintf(&b, "Options per question: %d\n", req.Options)
	fmt.Fprintf(&b, "Number of questions: %d\n", want)

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildAvoid(avoid, cfg.MaxAvoid))

	if rejection != "" {
		b.WriteString("\n\nSome questions from the previous attempt were rejected: ")
		b.WriteString(rejection)
	}

	return b.String()
}
