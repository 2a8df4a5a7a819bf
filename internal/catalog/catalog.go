// Package catalog loads and validates the pathway reference data.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Kele901/career-projector/internal/models"
)

//go:embed pathways.json
var defaultCatalog []byte

//go:embed schema.json
var catalogSchema string

// Catalog is a validated, read-only list of pathway definitions
type Catalog struct {
	pathways []models.PathwayDefinition
	index    map[string]int
}

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in catalog: %w", err)
	}
	return c, nil
}

// Load reads a catalog file. An empty path loads the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "cannot read file", Cause: err}
	}

	c, err := Parse(data)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, &LoadError{Path: path, Message: "cannot decode file", Cause: err}
	}
	return c, nil
}

// Parse validates raw JSON against the catalog schema, decodes it and checks the
// struct constraints. Pathway names must be unique, ignoring case.
func Parse(data []byte) (*Catalog, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var raw models.PathwayCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	if err := validateStruct(raw); err != nil {
		return nil, err
	}

	c := &Catalog{
		pathways: raw.Pathways,
		index:    make(map[string]int, len(raw.Pathways)),
	}

	var dupes []FieldError
	for i, p := range raw.Pathways {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, ok := c.index[key]; ok {
			dupes = append(dupes, FieldError{
				Field:   fmt.Sprintf("pathways.%d.name", i),
				Message: fmt.Sprintf("duplicate pathway name %q", p.Name),
			})
			continue
		}
		c.index[key] = i
	}
	if len(dupes) > 0 {
		return nil, &ValidationError{Errors: dupes}
	}

	return c, nil
}

func validateSchema(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

func validateStruct(raw models.PathwayCatalog) error {
	err := validator.New().Struct(raw)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate catalog: %w", err)
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed on %q", fe.Tag()),
		})
	}
	return ve
}

// Pathways returns the definitions in catalog order
func (c *Catalog) Pathways() []models.PathwayDefinition {
	out := make([]models.PathwayDefinition, len(c.pathways))
	copy(out, c.pathways)
	return out
}

// ByName finds a pathway ignoring case
func (c *Catalog) ByName(name string) (models.PathwayDefinition, bool) {
	i, ok := c.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return models.PathwayDefinition{}, false
	}
	return c.pathways[i], true
}

// Names lists the pathway names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.pathways))
	for i, p := range c.pathways {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of pathways
func (c *Catalog) Len() int {
	return len(c.pathways)
}
