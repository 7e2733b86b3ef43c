package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema is the subset of JSON Schema used to describe tool parameters and
// structured model outputs. It supports objects, arrays, primitives, enums
// and per-property descriptions, which covers every shape the agent exchanges
// with a model provider.
type Schema struct {
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties maps object property names to their own schemas.
	Properties map[string]*Schema `json:"properties,omitempty"`
	// Items defines the element schema for array types.
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties controls free-form object values (used for maps).
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Enum lists the allowed values for the property.
	Enum []any `json:"enum,omitempty"`
}

// For generates a Schema from the struct type T using reflection.
//
// Property names come from `json` tags (fields tagged `json:"-"` are skipped).
// The `jsonschema` tag customizes individual properties:
//
//	Field string `json:"field" jsonschema:"description=What this field holds,required"`
//	Depth string `json:"depth" jsonschema:"enum=basic,enum=advanced"`
//
// A field is required when it is a non-pointer without omitempty, or when the
// tag says `required` explicitly. Recursive types are not supported: the
// structured outputs this module exchanges are all finite trees.
func For[T any]() *Schema {
	return typeSchema(reflect.TypeFor[T]())
}

// typeSchema dispatches on the reflect kind of t.
func typeSchema(t reflect.Type) *Schema {
	switch t.Kind() {
	case reflect.Pointer:
		return typeSchema(t.Elem())
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: typeSchema(t.Elem())}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: typeSchema(t.Elem())}
	case reflect.Struct:
		return structSchema(t)
	default:
		return &Schema{Type: "object"}
	}
}

// structSchema builds an object schema from a struct's exported fields.
func structSchema(t reflect.Type) *Schema {
	schema := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema, t.NumField()),
	}

	for fieldIndex := 0; fieldIndex < t.NumField(); fieldIndex++ {
		field := t.Field(fieldIndex)
		if !field.IsExported() {
			continue
		}

		propertyName, omitEmpty, skip := parseJSONTag(field)
		if skip {
			continue
		}

		propertySchema := typeSchema(field.Type)
		requiredByTag := applySchemaTag(field, propertySchema)

		schema.Properties[propertyName] = propertySchema

		if requiredByTag || (field.Type.Kind() != reflect.Pointer && !omitEmpty) {
			schema.Required = append(schema.Required, propertyName)
		}
	}

	return schema
}

// parseJSONTag resolves the property name and omitempty flag for a field.
// skip is true for fields tagged `json:"-"`.
func parseJSONTag(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name = field.Name
	if tag != "" {
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			name = parts[0]
		}
		for _, option := range parts[1:] {
			if option == "omitempty" {
				omitEmpty = true
			}
		}
	}

	return name, omitEmpty, false
}

// applySchemaTag interprets the `jsonschema` struct tag, mutating the property
// schema in place. Returns true when the tag marks the field as required.
// Unparseable enum values are skipped rather than aborting schema generation.
func applySchemaTag(field reflect.StructField, schema *Schema) bool {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false
	}

	required := false
	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		switch {
		case !hasValue && key == "required":
			required = true
		case key == "description":
			schema.Description = value
		case key == "enum":
			if enumValue, err := coerceEnumValue(field.Type, value); err == nil {
				schema.Enum = append(schema.Enum, enumValue)
			}
		}
	}

	return required
}

// coerceEnumValue converts a tag literal to the field's underlying kind so the
// emitted enum matches the JSON type of the property.
func coerceEnumValue(t reflect.Type, literal string) (any, error) {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return literal, nil
	case reflect.Bool:
		return strconv.ParseBool(literal)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(literal, 64)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseInt(literal, 10, 64)
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type %v", t)
	}
}

// JSONString returns the compact JSON encoding of the schema.
func (s *Schema) JSONString() (string, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}
	return string(encoded), nil
}
