// Package jsonschema generates JSON Schema documents from Go struct types via
// reflection. Schemas are attached to model requests to describe tool
// parameters and to enforce structured outputs.
package jsonschema
