package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ShapeChecker reports whether a parsed analysis carries the keys its template asked for.
type ShapeChecker interface {
	Check(template PromptTemplate, content map[string]any) error
}

type schemaShapeChecker struct {
	schemas map[PromptTemplate]*jsonschema.Schema
}

func NewShapeChecker() (ShapeChecker, error) {
	templates := []PromptTemplate{TemplateRoleAndCompany, TemplateRoleOnly, TemplateCompanyOnly, TemplateGeneral}

	schemas := make(map[PromptTemplate]*jsonschema.Schema, len(templates))
	for _, template := range templates {
		schema, err := compileSchema(string(template)+".json", BuildAnalysisJSONSchema(template))
		if err != nil {
			return nil, err
		}
		schemas[template] = schema
	}

	return &schemaShapeChecker{schemas: schemas}, nil
}

// Check implements ShapeChecker.
func (s *schemaShapeChecker) Check(template PromptTemplate, content map[string]any) error {
	schema, ok := s.schemas[template]
	if !ok {
		return fmt.Errorf("no schema for template %q", template)
	}

	// Validate only understands the generic JSON value types.
	b, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal analysis: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("analysis does not match %s template: %w", template, err)
	}
	return nil
}

// BuildAnalysisJSONSchema returns the loose JSON Schema for a template's requested keys.
func BuildAnalysisJSONSchema(template PromptTemplate) map[string]any {
	fields := template.RequestedFields()
	props := make(map[string]any, len(fields))

	for _, field := range fields {
		switch field {
		case "strengths", "shortcomings", "recommendations", "recommended_roles", "recommended_companies":
			props[field] = map[string]any{"type": "array"}
		case "selection_chance":
			props[field] = map[string]any{"type": []string{"string", "number"}}
		case "roadmap":
			props[field] = map[string]any{
				"type":     "object",
				"required": []string{"short_term", "mid_term", "long_term"},
			}
		default:
			props[field] = map[string]any{"type": "string"}
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   fields,
	}
}

func compileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
