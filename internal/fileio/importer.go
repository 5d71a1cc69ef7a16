package fileio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const envelopeSchemaURL = "https://flowedit.local/schemas/envelope.json"

// envelopeSchemaJSON accepts any envelope that carries the two diagram
// maps. Record contents are checked loosely here; Load skips records it
// cannot place.
const envelopeSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowedit.local/schemas/envelope.json",
  "type": "object",
  "required": ["diagram"],
  "properties": {
    "version": { "type": "string" },
    "created": { "type": "string" },
    "diagram": {
      "type": "object",
      "required": ["elements", "connections"],
      "properties": {
        "elements": {
          "type": "object",
          "additionalProperties": { "$ref": "#/$defs/element" }
        },
        "connections": {
          "type": "object",
          "additionalProperties": { "$ref": "#/$defs/connection" }
        }
      }
    }
  },
  "$defs": {
    "element": {
      "type": "object",
      "properties": {
        "type": { "type": "string" },
        "x": { "type": "number" },
        "y": { "type": "number" },
        "text": { "type": "string" }
      }
    },
    "connection": {
      "type": "object",
      "properties": {
        "startId": { "type": "string" },
        "startPoint": { "type": "integer" },
        "endId": { "type": "string" },
        "endPoint": { "type": "integer" }
      }
    }
  }
}`

// Importer decodes and validates exported diagram files.
type Importer struct {
	schema *jsonschema.Schema
}

// NewImporter compiles the envelope schema.
func NewImporter() (*Importer, error) {
	c := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(envelopeSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal envelope schema: %w", err)
	}
	if err := c.AddResource(envelopeSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add envelope schema resource: %w", err)
	}
	s, err := c.Compile(envelopeSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile envelope schema: %w", err)
	}
	return &Importer{schema: s}, nil
}

// Read decodes an envelope from r. Anything that is not JSON or lacks the
// diagram maps yields ErrMalformedImport.
func (im *Importer) Read(r io.Reader) (Envelope, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Envelope{}, fmt.Errorf("read import: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if err := im.schema.Validate(doc); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	return env, nil
}

// ReadFile reads an envelope from a .json file.
func (im *Importer) ReadFile(path string) (Envelope, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return Envelope{}, fmt.Errorf("%w: %s is not a .json file", ErrMalformedImport, filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return Envelope{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return im.Read(f)
}
