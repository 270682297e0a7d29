package response

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// SchemaError lists the ways a payload failed the response schema.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "response does not match schema: " + strings.Join(e.Problems, "; ")
}

// Parse checks data against the response schema and decodes it. The schema
// only constrains field types, so unknown fields and modes pass through.
func Parse(data []byte) (*AgentResponse, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load response schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, &SchemaError{Problems: problems}
	}

	var r AgentResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	r.Raw = append(json.RawMessage(nil), data...)
	return &r, nil
}
