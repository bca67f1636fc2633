package duckduckgo

import (
	"strings"
	"testing"
)

func TestBuildSummary(t *testing.T) {
	parsed := ddgResponse{
		AbstractText: "Rabbits are small mammals.",
		AbstractURL:  "https://en.wikipedia.org/wiki/Rabbit",
		Answer:       "42",
		RelatedTopics: []struct {
			Text string `json:"Text"`
		}{
			{Text: "Hares"},
			{Text: "Pets"},
		},
	}

	summary := buildSummary(parsed)

	for _, expected := range []string{
		"Abstract: Rabbits are small mammals.",
		"Source: https://en.wikipedia.org/wiki/Rabbit",
		"Answer: 42",
		"Related topics: Hares; Pets",
	} {
		if !strings.Contains(summary, expected) {
			t.Errorf("summary missing %q:\n%s", expected, summary)
		}
	}
}

func TestBuildSummaryLimitsRelatedTopics(t *testing.T) {
	parsed := ddgResponse{}
	for i := 0; i < 10; i++ {
		parsed.RelatedTopics = append(parsed.RelatedTopics, struct {
			Text string `json:"Text"`
		}{Text: "topic"})
	}

	summary := buildSummary(parsed)

	if count := strings.Count(summary, "topic"); count != maxRelatedTopics {
		t.Errorf("expected %d topics in summary, got %d", maxRelatedTopics, count)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := buildSummary(ddgResponse{})

	if summary != "No results found for this query." {
		t.Errorf("unexpected empty summary: %q", summary)
	}
}

func TestNewSearchTool(t *testing.T) {
	searchTool := NewSearchTool()

	info := searchTool.ToolInfo()
	if info.Name != "DuckDuckGoSearch" {
		t.Errorf("unexpected tool name %q", info.Name)
	}
	if info.Parameters == nil {
		t.Fatal("expected derived parameters schema")
	}
	if _, ok := info.Parameters.Properties["query"]; !ok {
		t.Error("expected query property in schema")
	}
}
