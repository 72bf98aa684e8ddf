package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is the JSON shape requested from the model.
type Schema struct {
	// Name is kebab-case; Anthropic and OpenAI require one.
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Validate checks raw against the schema. Failures are *ErrInvalidResponse.
func (s *Schema) Validate(raw json.RawMessage) error {
	compiled, err := s.compile()
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema %s: %w", s.Name, err)}
	}
	return nil
}

// compile builds the validator once. Definition is re-read through JSON
// so Go slice and number types become what the compiler expects.
func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		def, err := json.Marshal(s.Definition)
		if err != nil {
			s.err = fmt.Errorf("marshal schema %s: %w", s.Name, err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
		if err != nil {
			s.err = fmt.Errorf("parse schema %s: %w", s.Name, err)
			return
		}
		url := "schema://llm/" + s.Name + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, doc); err != nil {
			s.err = fmt.Errorf("add schema %s: %w", s.Name, err)
			return
		}
		s.compiled, s.err = c.Compile(url)
	})
	return s.compiled, s.err
}
