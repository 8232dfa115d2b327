package scanner

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/theme-family.schema.json
var themeSchemaBytes []byte

var (
	themeSchema     *jsonschema.Schema
	themeSchemaOnce sync.Once
	themeSchemaErr  error
)

// ThemeFamily is a theme file declaring one or more theme variants
type ThemeFamily struct {
	Name   string         `json:"name"`
	Author string         `json:"author"`
	Themes []ThemeVariant `json:"themes"`
}

// ThemeVariant is a single named theme inside a family. The style block is
// kept raw; rendering is the theme registry's business.
type ThemeVariant struct {
	Name       string          `json:"name"`
	Appearance string          `json:"appearance"`
	Style      json.RawMessage `json:"style"`
}

func getThemeSchema() (*jsonschema.Schema, error) {
	themeSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(themeSchemaBytes))
		if err != nil {
			themeSchemaErr = fmt.Errorf("unmarshaling theme schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("theme-family.schema.json", doc); err != nil {
			themeSchemaErr = fmt.Errorf("adding theme schema: %w", err)
			return
		}
		themeSchema, themeSchemaErr = c.Compile("theme-family.schema.json")
	})
	return themeSchema, themeSchemaErr
}

// ParseThemeFamily checks the structure of a theme family file and decodes it
func ParseThemeFamily(data []byte) (*ThemeFamily, error) {
	schema, err := getThemeSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThemeFamily, err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThemeFamily, err)
	}

	var family ThemeFamily
	if err := json.Unmarshal(data, &family); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThemeFamily, err)
	}
	return &family, nil
}
