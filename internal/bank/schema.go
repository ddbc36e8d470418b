package bank

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://gachadeck/bank.json"

// bankSchema checks the structure of a bank file. Either array may be
// missing; an empty pool and cross-field rules (option index range, unique
// ids) are enforced after decoding.
const bankSchema = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "cards": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "term", "hint", "def", "analogy", "rarity", "parent"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "term": {"type": "string", "minLength": 1},
          "hint": {"type": "string"},
          "def": {"type": "string"},
          "analogy": {"type": "string"},
          "rarity": {"type": "string"},
          "parent": {"type": "string"}
        }
      }
    },
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "question", "answer", "explanation", "hint"],
        "properties": {
          "type": {"enum": ["choice", "fill", "shortAnswer"]},
          "question": {"type": "string", "minLength": 1},
          "answer": {
            "anyOf": [
              {"type": "integer", "minimum": 0},
              {"type": "string"},
              {"type": "array", "items": {"type": "string"}, "minItems": 1}
            ]
          },
          "options": {"type": "array", "items": {"type": "string"}},
          "explanation": {"type": "string"},
          "hint": {"type": "string"}
        },
        "allOf": [
          {
            "if": {"properties": {"type": {"const": "choice"}}},
            "then": {"required": ["options"], "properties": {"answer": {"type": "integer"}, "options": {"minItems": 2}}}
          },
          {
            "if": {"properties": {"type": {"const": "fill"}}},
            "then": {"properties": {"answer": {"not": {"type": "integer"}}}}
          },
          {
            "if": {"properties": {"type": {"const": "shortAnswer"}}},
            "then": {"properties": {"answer": {"type": "string"}}}
          }
        ]
      }
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(bankSchema), &doc); err != nil {
			compileErr = errors.Wrap(err, "parse bank schema")
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = errors.Wrap(err, "add bank schema")
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = errors.Wrap(compileErr, "compile bank schema")
		}
	})
	return compiled, compileErr
}

// validateDocument checks raw bank JSON against the bank schema.
func validateDocument(raw []byte) error {
	// UnmarshalJSON keeps numbers as json.Number so integer checks are exact.
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "invalid JSON")
	}
	sch, err := schema()
	if err != nil {
		return err
	}
	if err := sch.Validate(parsed); err != nil {
		return errors.Wrap(err, "schema validation failed")
	}
	return nil
}
