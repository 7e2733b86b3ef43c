package jsonschema

import (
	"reflect"
	"strings"
	"testing"
)

func TestForObjectSchema(t *testing.T) {
	type searchArgs struct {
		Query string `json:"query" jsonschema:"description=The search query to run"`
		Depth string `json:"depth,omitempty" jsonschema:"enum=basic,enum=advanced"`
	}

	schema := For[searchArgs]()

	if schema.Type != "object" {
		t.Fatalf("Type = %q, want object", schema.Type)
	}

	query := schema.Properties["query"]
	if query == nil || query.Type != "string" {
		t.Fatalf("query property = %+v", query)
	}
	if query.Description != "The search query to run" {
		t.Errorf("query description = %q", query.Description)
	}

	depth := schema.Properties["depth"]
	if depth == nil || !reflect.DeepEqual(depth.Enum, []any{"basic", "advanced"}) {
		t.Errorf("depth enum = %+v", depth)
	}

	// query is non-pointer without omitempty; depth opts out via omitempty.
	if !reflect.DeepEqual(schema.Required, []string{"query"}) {
		t.Errorf("Required = %v, want [query]", schema.Required)
	}
}

func TestForNestedAndArrayTypes(t *testing.T) {
	type competitor struct {
		Rank int    `json:"rank"`
		URL  string `json:"url"`
	}
	type analysis struct {
		Competitors []competitor `json:"competitors"`
		Scores      []float64    `json:"scores"`
	}

	schema := For[analysis]()

	competitors := schema.Properties["competitors"]
	if competitors == nil || competitors.Type != "array" {
		t.Fatalf("competitors = %+v", competitors)
	}
	if competitors.Items == nil || competitors.Items.Type != "object" {
		t.Fatalf("competitors items = %+v", competitors.Items)
	}
	if rank := competitors.Items.Properties["rank"]; rank == nil || rank.Type != "integer" {
		t.Errorf("rank = %+v", rank)
	}

	if scores := schema.Properties["scores"]; scores == nil || scores.Items == nil || scores.Items.Type != "number" {
		t.Errorf("scores = %+v", scores)
	}
}

func TestForRequiredRules(t *testing.T) {
	type mixed struct {
		Always      string  `json:"always"`
		Optional    *string `json:"optional"`
		Forced      *string `json:"forced" jsonschema:"required"`
		OmitEmpty   string  `json:"omit_empty,omitempty"`
		Hidden      string  `json:"-"`
		notExported string
	}
	_ = mixed{notExported: ""}

	schema := For[mixed]()

	if !reflect.DeepEqual(schema.Required, []string{"always", "forced"}) {
		t.Errorf("Required = %v", schema.Required)
	}
	if _, present := schema.Properties["-"]; present {
		t.Error("json:\"-\" fields must be skipped")
	}
	if _, present := schema.Properties["Hidden"]; present {
		t.Error("json:\"-\" fields must be skipped")
	}
	if len(schema.Properties) != 4 {
		t.Errorf("Properties = %v, want only the exported serialized fields", schema.Properties)
	}
}

func TestForMapBecomesOpenObject(t *testing.T) {
	schema := For[map[string]int]()
	if schema.Type != "object" {
		t.Fatalf("Type = %q", schema.Type)
	}
	valueSchema, ok := schema.AdditionalProperties.(*Schema)
	if !ok || valueSchema.Type != "integer" {
		t.Errorf("AdditionalProperties = %+v", schema.AdditionalProperties)
	}
}

func TestJSONStringIsCompact(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	encoded, err := For[payload]().JSONString()
	if err != nil {
		t.Fatalf("JSONString returned error: %v", err)
	}
	if strings.Contains(encoded, "\n") {
		t.Errorf("encoding must be compact, got %q", encoded)
	}
	if !strings.Contains(encoded, `"properties":{"name":{"type":"string"}}`) {
		t.Errorf("encoding = %q", encoded)
	}
}
