// Package validation checks raw request bodies against embedded JSON schemas
// before they are decoded into models.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"estateBack/internal/models"
)

const baseURL = "https://estateback.local/schemas/"

const (
	SavedSearchCreate = "saved_search_create"
	SavedSearchUpdate = "saved_search_update"
	Criteria          = "criteria"
	Apartment         = "apartment"
	Review            = "review"
	Register          = "register"
	Login             = "login"
)

//go:embed schemas/*.json
var schemaFS embed.FS

type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every embedded schema. It fails only if a schema file is broken.
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		data, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(baseURL+e.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", e.Name(), err)
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		schema, err := compiler.Compile(baseURL + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// Validate checks body against the named schema. Input problems come back as
// *models.ValidationError keyed by dotted field path.
func (v *Validator) Validate(name string, body []byte) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("schema %q not found", name)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		verr := models.NewValidationError()
		verr.Add("body", "must be valid JSON")
		return verr
	}
	if _, isObject := doc.(map[string]interface{}); !isObject {
		verr := models.NewValidationError()
		verr.Add("body", "must be a JSON object")
		return verr
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}
	var schemaErr *jsonschema.ValidationError
	if !errors.As(err, &schemaErr) {
		return fmt.Errorf("validate %s: %w", name, err)
	}

	verr := models.NewValidationError()
	collect(schemaErr, verr)
	if !verr.HasErrors() {
		verr.Add("body", schemaErr.Message)
	}
	return verr
}

func collect(e *jsonschema.ValidationError, verr *models.ValidationError) {
	if len(e.Causes) == 0 {
		verr.Add(fieldName(e), e.Message)
		return
	}
	for _, cause := range e.Causes {
		collect(cause, verr)
	}
}

func fieldName(e *jsonschema.ValidationError) string {
	loc := strings.Trim(e.InstanceLocation, "/")
	if loc == "" {
		// "missing properties: 'search_criteria'" names the field itself.
		if i := strings.Index(e.Message, "'"); i >= 0 {
			if j := strings.Index(e.Message[i+1:], "'"); j >= 0 {
				return e.Message[i+1 : i+1+j]
			}
		}
		return "body"
	}
	return strings.ReplaceAll(loc, "/", ".")
}
