package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrSchema is returned when a layout document has the wrong shape, such as
// a misspelled key or a string where a number belongs.
var ErrSchema = errors.New("layout does not match schema")

//go:embed layout.schema.json
var layoutSchemaJSON string

var layoutSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(layoutSchemaJSON))
})

// checkSchema validates the raw YAML document against the layout schema.
// Every violation is reported, not only the first.
func checkSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]any{}
	}

	schema, err := layoutSchema()
	if err != nil {
		return fmt.Errorf("compiling layout schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(errs, "; "))
}
