// Package recordschema validates a raw election record document against the
// embedded ElectionGuard 0.85 JSON Schema before any typed parsing begins.
// This is the "JSON-schema shape validation" collaborator: it catches a
// malformed document at the door, so everything downstream of record.Parse
// can assume the shape (if not the arithmetic) of what it receives.
package recordschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var embedded []byte

const schemaURL = "https://github.com/nvotes/juvenal-lib/recordschema/electionguard-0.85.json"

// Schema wraps a compiled JSON Schema ready to validate election record
// documents.
type Schema struct {
	compiled *jsonschema.Schema
}

// Load compiles the embedded ElectionGuard 0.85 schema.
func Load() (*Schema, error) {
	return compile(embedded)
}

// LoadFile compiles a schema read from path, for --schema overrides.
func LoadFile(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recordschema: reading %s: %w", path, err)
	}
	return compile(raw)
}

func compile(raw []byte) (*Schema, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("recordschema: parsing schema document: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("recordschema: registering schema resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("recordschema: compiling schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate reports whether data (the raw election record document, as
// bytes) matches the schema. A nil error with ok=false means the document
// is well-formed JSON that simply doesn't match the shape; a non-nil error
// means data was not even valid JSON.
func (s *Schema) Validate(data []byte) (ok bool, err error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return false, fmt.Errorf("recordschema: record is not valid JSON: %w", err)
	}
	if verr := s.compiled.Validate(doc); verr != nil {
		return false, nil
	}
	return true, nil
}
