// Package jsonschema derives JSON Schema documents from Go types via
// reflection. The schemas are used to advertise tool argument structures to
// LLM providers. Field metadata is read from `json` and `jsonschema` struct
// tags; the latter supports description, enum, and required markers:
//
//	type Input struct {
//	    Query string `json:"query" jsonschema:"description=Search query,required"`
//	    Limit int    `json:"limit,omitempty" jsonschema:"description=Max results"`
//	}
package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema represents a JSON Schema document. It covers the subset of the
// standard needed to describe tool arguments: objects with typed properties,
// arrays, enums, and required-field lists.
type Schema struct {
	// Type specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of the arguments, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties controls whether properties not defined in Properties are allowed
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Enum contains the list of allowed values for the parameter
	Enum []any `json:"enum,omitempty"`
}

// For generates a JSON schema for the type T. Pointer types are
// dereferenced; structs become objects with one property per exported,
// non-skipped field. Non-pointer fields without omitempty are required, as
// are fields carrying the `jsonschema:"required"` tag.
func For[T any]() *Schema {
	return fromType(reflect.TypeFor[T]())
}

func fromType(t reflect.Type) *Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
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
		return &Schema{Type: "array", Items: fromType(t.Elem())}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: fromType(t.Elem())}
	case reflect.Struct:
		return fromStruct(t)
	default:
		return &Schema{Type: "object"}
	}
}

func fromStruct(t reflect.Type) *Schema {
	schema := &Schema{
		Type:       "object",
		Properties: map[string]*Schema{},
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		isOmitEmpty := false
		if jsonTag != "" {
			if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
				fieldName = jsonTag[:commaIdx]
				isOmitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
			} else {
				fieldName = jsonTag
			}
		}

		fieldSchema := fromType(field.Type)
		requiredByTag := applyTag(field, fieldSchema)
		schema.Properties[fieldName] = fieldSchema

		if (field.Type.Kind() != reflect.Ptr && !isOmitEmpty) || requiredByTag {
			schema.Required = append(schema.Required, fieldName)
		}
	}

	return schema
}

// applyTag parses the `jsonschema` struct tag and applies description and
// enum settings to the field schema. Reports whether the field was explicitly
// marked required. Enum values are converted to the field's underlying kind;
// unparseable values are ignored rather than failing schema generation.
func applyTag(field reflect.StructField, schema *Schema) bool {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false
	}

	required := false
	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		if !hasValue {
			if key == "required" {
				required = true
			}
			continue
		}

		switch key {
		case "description":
			schema.Description = value
		case "enum":
			if enumValue, ok := convertEnum(field.Type.Kind(), value); ok {
				schema.Enum = append(schema.Enum, enumValue)
			}
		}
	}

	return required
}

func convertEnum(kind reflect.Kind, value string) (any, bool) {
	switch kind {
	case reflect.String:
		return value, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseInt(value, 10, 64)
		return parsed, err == nil
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(value, 64)
		return parsed, err == nil
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		return parsed, err == nil
	default:
		return nil, false
	}
}

// JsonString converts the Schema to its JSON representation. When indent is
// true the output is pretty-printed with two-space indentation.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	var jsonBytes []byte
	var err error

	if len(indent) > 0 && indent[0] {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation of the schema, or an error
// message if marshalling fails.
func (s *Schema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}
