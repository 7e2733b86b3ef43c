package parse

import (
	"strings"
	"testing"
)

type routePayload struct {
	NextNode  string `json:"next_node"`
	Reasoning string `json:"reasoning"`
}

func TestParseStringAsCleanJSON(t *testing.T) {
	parsed, err := ParseStringAs[routePayload](`{"next_node": "competitor_analysis", "reasoning": "enough results"}`)
	if err != nil {
		t.Fatalf("ParseStringAs returned error: %v", err)
	}
	if parsed.NextNode != "competitor_analysis" {
		t.Errorf("NextNode = %q", parsed.NextNode)
	}
}

func TestParseStringAsFencedJSON(t *testing.T) {
	content := "```json\n{\"next_node\": \"query_generator\", \"reasoning\": \"too thin\"}\n```"
	parsed, err := ParseStringAs[routePayload](content)
	if err != nil {
		t.Fatalf("ParseStringAs returned error: %v", err)
	}
	if parsed.NextNode != "query_generator" {
		t.Errorf("NextNode = %q", parsed.NextNode)
	}
}

func TestParseStringAsRepairsMalformedJSON(t *testing.T) {
	// Single quotes, unquoted keys and a trailing comma are common model slips.
	content := "{next_node: 'query_generator', reasoning: 'needs refinement',}"
	parsed, err := ParseStringAs[routePayload](content)
	if err != nil {
		t.Fatalf("ParseStringAs returned error: %v", err)
	}
	if parsed.NextNode != "query_generator" || parsed.Reasoning != "needs refinement" {
		t.Errorf("parsed = %+v", parsed)
	}
}

func TestParseStringAsSlice(t *testing.T) {
	parsed, err := ParseStringAs[[]string](`["ai chips", "gpu market"]`)
	if err != nil {
		t.Fatalf("ParseStringAs returned error: %v", err)
	}
	if len(parsed) != 2 || parsed[1] != "gpu market" {
		t.Errorf("parsed = %v", parsed)
	}
}

func TestParseStringAsPrimitives(t *testing.T) {
	text, err := ParseStringAs[string]("plain answer")
	if err != nil || text != "plain answer" {
		t.Errorf("string: got %q, %v", text, err)
	}

	count, err := ParseStringAs[int](" 42\n")
	if err != nil || count != 42 {
		t.Errorf("int: got %d, %v", count, err)
	}

	flag, err := ParseStringAs[bool]("true")
	if err != nil || !flag {
		t.Errorf("bool: got %v, %v", flag, err)
	}

	score, err := ParseStringAs[float64]("0.85")
	if err != nil || score != 0.85 {
		t.Errorf("float: got %v, %v", score, err)
	}

	if _, err := ParseStringAs[int]("not a number"); err == nil {
		t.Error("expected an error for unparseable int content")
	}
}

func TestParseStringAsReportsOriginalContentOnFailure(t *testing.T) {
	_, err := ParseStringAs[routePayload]("[1, 2, 3]")
	if err == nil {
		t.Fatal("expected a type mismatch error")
	}
	if !strings.Contains(err.Error(), "[1, 2, 3]") {
		t.Errorf("error %q must include the offending content", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"json tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"uppercase tag", "```JSON\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"multiline body", "```json\n{\n  \"a\": 1\n}\n```", "{\n  \"a\": 1\n}"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := StripCodeFence(testCase.content); got != testCase.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", testCase.content, got, testCase.want)
			}
		})
	}
}
