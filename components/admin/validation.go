package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ProfessionalTypes is the fixed set of profession labels offered by the form.
var ProfessionalTypes = []string{
	"Veterinário",
	"Agrônomo",
	"Zootecnista",
	"Técnico Agrícola",
	"Agricultor",
	"Fornecedor",
}

// BrazilianStates lists every two-letter region code accepted by the form.
var BrazilianStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG",
	"PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// FormValidator checks professional form payloads before any request is issued.
type FormValidator interface {
	ValidateProfessional(input ProfessionalInput) error
}

func professionalSchema() map[string]any {
	types := make([]any, len(ProfessionalTypes))
	for i, t := range ProfessionalTypes {
		types[i] = t
	}
	return map[string]any{
		"type":     "object",
		"required": []any{"name", "type", "state", "city"},
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"type":        map[string]any{"type": "string", "enum": types},
			"state":       map[string]any{"type": "string", "pattern": "^[A-Z]{2}$"},
			"city":        map[string]any{"type": "string", "minLength": 1},
			"phone":       map[string]any{"type": "string"},
			"email":       map[string]any{"type": "string"},
			"specialties": map[string]any{"type": "string"},
		},
	}
}

// JSONSchemaValidator validates form payloads against a compiled schema.
type JSONSchemaValidator struct {
	once       sync.Once
	compiled   *jsonschema.Schema
	compileErr error
}

// NewJSONSchemaValidator builds the validator; the schema compiles lazily.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{}
}

// ValidateProfessional ensures the payload satisfies the professional schema.
func (v *JSONSchemaValidator) ValidateProfessional(input ProfessionalInput) error {
	schema, err := v.schema()
	if err != nil {
		return err
	}
	payload := map[string]any{
		"name":        input.Name,
		"type":        input.Type,
		"state":       input.State,
		"city":        input.City,
		"phone":       input.Phone,
		"email":       input.Email,
		"specialties": input.Specialties,
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("admin: professional payload failed validation: %w", err)
	}
	return nil
}

func (v *JSONSchemaValidator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		data, err := json.Marshal(professionalSchema())
		if err != nil {
			v.compileErr = fmt.Errorf("admin: marshal professional schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("professional.json", bytes.NewReader(data)); err != nil {
			v.compileErr = fmt.Errorf("admin: load professional schema: %w", err)
			return
		}
		v.compiled, v.compileErr = compiler.Compile("professional.json")
	})
	return v.compiled, v.compileErr
}

type noopFormValidator struct{}

func (noopFormValidator) ValidateProfessional(ProfessionalInput) error { return nil }
