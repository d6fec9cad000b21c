package lang

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/document.schema.json
var documentSchema []byte

const documentSchemaURL = "schema://document.json"

// Schema returns the JSON Schema (draft 2020-12) describing the JSON
// encoding of a [Document].
func Schema() []byte { return bytes.Clone(documentSchema) }

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true

	if err := c.AddResource(documentSchemaURL, bytes.NewReader(documentSchema)); err != nil {
		return nil, err
	}

	return c.Compile(documentSchemaURL)
})

// ValidateJSON checks that r holds a single JSON document matching
// [Schema].
func ValidateJSON(r io.Reader) error {
	schema, err := compiledSchema()
	if err != nil {
		return ErrSchema.Wrap(err)
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return ErrReadInput.Wrap(err)
	}

	if err := schema.Validate(v); err != nil {
		return ErrSchema.Wrap(err)
	}

	return nil
}

// ValidateDocument checks the JSON encoding of d against [Schema].
func ValidateDocument(d *Document) error {
	data, err := json.Marshal(d)
	if err != nil {
		return ErrSchema.Wrap(err)
	}

	return ValidateJSON(bytes.NewReader(data))
}
