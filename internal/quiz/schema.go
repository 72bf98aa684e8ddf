package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ItemSchema is the JSON Schema of one Item.
var ItemSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"question", "options", "answer", "explanation"},
	"properties": map[string]any{
		"question": map[string]any{
			"type":        "string",
			"description": "The question text.",
		},
		"options": map[string]any{
			"type":        "array",
			"description": "Answer choices; exactly one equals answer.",
			"minItems":    2,
			"items":       map[string]any{"type": "string"},
		},
		"answer": map[string]any{
			"type":        "string",
			"description": "The correct option, copied verbatim.",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Shown after the question is answered.",
		},
	},
}

// BankSchema is the JSON Schema of a bank file: an array of items.
var BankSchema = map[string]any{
	"type":  "array",
	"items": ItemSchema,
}

var (
	bankSchemaOnce sync.Once
	bankSchema     *jsonschema.Schema
	bankSchemaErr  error
)

// ValidateJSON checks raw bank file bytes against BankSchema.
func ValidateJSON(raw []byte) error {
	bankSchemaOnce.Do(func() {
		bankSchema, bankSchemaErr = compileSchema("schema://quizzy/bank.json", BankSchema)
	})
	if bankSchemaErr != nil {
		return fmt.Errorf("compile bank schema: %w", bankSchemaErr)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := bankSchema.Validate(doc); err != nil {
		return fmt.Errorf("bank does not match schema: %w", err)
	}
	return nil
}

func compileSchema(url string, def map[string]any) (*jsonschema.Schema, error) {
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
}
