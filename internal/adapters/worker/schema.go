package worker

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var ErrSchemaMismatch = errors.New("response does not match schema")

// SchemaError lists every violation found in one response.
type SchemaError struct {
	Path       string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s response does not match schema: %s", e.Path, strings.Join(e.Violations, "; "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

var (
	schemasOnce sync.Once
	schemas     map[string]*gojsonschema.Schema
	schemasErr  error
)

// ValidateResponse checks body against the schema registered for path.
// Paths without a schema are accepted as is.
func ValidateResponse(path string, body []byte) error {
	compiled, err := loadSchemas()
	if err != nil {
		return err
	}

	schema, ok := compiled[path]
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("validate %s response: %w", path, err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		violations[i] = desc.String()
	}

	return &SchemaError{Path: path, Violations: violations}
}

// HasSchema reports whether responses for path are schema checked.
func HasSchema(path string) bool {
	compiled, err := loadSchemas()
	if err != nil {
		return false
	}
	_, ok := compiled[path]
	return ok
}

func loadSchemas() (map[string]*gojsonschema.Schema, error) {
	schemasOnce.Do(func() {
		entries, err := schemaFiles.ReadDir("schemas")
		if err != nil {
			schemasErr = fmt.Errorf("read embedded schemas: %w", err)
			return
		}

		compiled := make(map[string]*gojsonschema.Schema, len(entries))
		for _, entry := range entries {
			data, err := schemaFiles.ReadFile("schemas/" + entry.Name())
			if err != nil {
				schemasErr = fmt.Errorf("read schema %s: %w", entry.Name(), err)
				return
			}

			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", entry.Name(), err)
				return
			}

			compiled["/"+strings.TrimSuffix(entry.Name(), ".json")] = schema
		}
		schemas = compiled
	})

	return schemas, schemasErr
}
