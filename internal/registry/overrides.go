package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	TextCodeOverridesRead   = "OVERRIDES_READ_FAILED"
	TextCodeOverridesDecode = "OVERRIDES_DECODE_FAILED"
	TextCodeOverridesSchema = "OVERRIDES_SCHEMA_INVALID"
)

const overrideSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "required": ["name", "url", "category", "type"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "domain": {"type": "string"},
      "url": {"type": "string", "minLength": 1},
      "category": {"type": "string"},
      "type": {"enum": ["company", "person", "platform", "project"]},
      "icon": {"type": "string"},
      "twitter": {"type": "string"},
      "github": {"type": "string"}
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

func overridesSchema() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("entity-overrides.json", strings.NewReader(overrideSchema)); err != nil {
			compiledSchemaErr = err
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile("entity-overrides.json")
	})
	return compiledSchema, compiledSchemaErr
}

// LoadOverrides reads the override file at path. A missing file yields no
// entries and no error. Any other failure is returned as a categorized error
// so the caller can log it before falling back to the built-ins.
func LoadOverrides(path string) ([]Entity, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "read entity overrides").
			WithTextCode(TextCodeOverridesRead).
			WithMetadata(map[string]any{"path": path})
	}
	entries, err := DecodeOverrides(raw)
	if err != nil {
		var typed *goerrors.Error
		if errors.As(err, &typed) {
			typed.WithMetadata(map[string]any{"path": path})
		}
		return nil, err
	}
	return entries, nil
}

// DecodeOverrides parses an override document, preserving the order in which
// slugs appear in the source.
func DecodeOverrides(raw []byte) ([]Entity, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "decode entity overrides").
			WithTextCode(TextCodeOverridesDecode)
	}
	schema, err := overridesSchema()
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "compile entity override schema")
	}
	if err := schema.Validate(doc); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "entity overrides do not match schema").
			WithTextCode(TextCodeOverridesSchema)
	}

	entries, err := decodeOrdered(raw)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "decode entity overrides").
			WithTextCode(TextCodeOverridesDecode)
	}
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, fmt.Sprintf("invalid entity override %q", entry.Slug)).
				WithTextCode(TextCodeOverridesSchema)
		}
	}
	return entries, nil
}

// decodeOrdered walks the top-level object token by token since a map would
// lose the key order the overlay depends on.
func decodeOrdered(raw []byte) ([]Entity, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var entries []Entity
	seen := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", tok)
		}
		var entity Entity
		if err := dec.Decode(&entity); err != nil {
			return nil, fmt.Errorf("entity %q: %w", key, err)
		}
		entity.Slug = key
		// duplicate keys: last value wins, first position kept
		if idx, dup := seen[key]; dup {
			entries[idx] = entity
			continue
		}
		seen[key] = len(entries)
		entries = append(entries, entity)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return entries, nil
}
