package bankgen

import "github.com/abhisek/quizzy/internal/llm"

// BankSchema is the structured output requested from the LLM. Providers
// want an object at the top level, so the item list is wrapped.
var BankSchema = &llm.Schema{
	Name:        "question-bank",
	Description: "A list of multiple-choice quiz questions with answers and explanations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": itemSchema,
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// itemSchema mirrors quiz.ItemSchema without minItems, which not every
// provider's structured output mode accepts.
var itemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{
			"type":        "string",
			"description": "The question text, self-contained and unambiguous",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "The answer choices, exactly one of them correct",
		},
		"answer": map[string]any{
			"type":        "string",
			"description": "The correct option, copied verbatim from options",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "One or two sentences on why the answer is right",
		},
	},
	"required":             []any{"question", "options", "answer", "explanation"},
	"additionalProperties": false,
}
