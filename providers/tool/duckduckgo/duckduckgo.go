package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/leofalp/chatflow/internal/utils"
	"github.com/leofalp/chatflow/providers/tool"
)

const (
	apiEndpoint = "https://api.duckduckgo.com/"
	userAgent   = "chatflow-duckduckgo-tool/1.0"

	// maxRelatedTopics caps how many related topics are folded into the summary.
	maxRelatedTopics = 5
)

// Input holds the parameters passed to the search tool by the language model.
type Input struct {
	Query string `json:"query" jsonschema:"description=The search query to look up on DuckDuckGo,required"`
}

// Output is the condensed search result returned to the language model.
type Output struct {
	Query   string `json:"query" jsonschema:"description=The original search query"`
	Summary string `json:"summary" jsonschema:"description=Summary of search results including abstracts, answers, and related topics"`
}

// ddgResponse models the subset of the DuckDuckGo Instant Answer API
// response that the summary uses.
type ddgResponse struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        string `json:"Answer"`
	Definition    string `json:"Definition"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

// NewSearchTool returns a [tool.Tool] that queries the DuckDuckGo Instant
// Answer API and summarises abstracts, answers and related topics.
func NewSearchTool() *tool.Tool[Input, Output] {
	return tool.NewTool(
		"DuckDuckGoSearch",
		Search,
		tool.WithDescription("Search the web using DuckDuckGo search engine. Returns instant answers, abstracts, and related topics summary for a given query."),
	)
}

// Search performs the API call and builds a plain-text summary.
func Search(ctx context.Context, req Input) (Output, error) {
	params := url.Values{}
	params.Add("q", req.Query)
	params.Add("format", "json")
	params.Add("no_html", "1")
	params.Add("skip_disambig", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Output{}, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return Output{}, fmt.Errorf("error making request: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return Output{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Output{}, fmt.Errorf("error reading response: %w", err)
	}

	var parsed ddgResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Output{}, fmt.Errorf("error parsing response: %w", err)
	}

	return Output{
		Query:   req.Query,
		Summary: buildSummary(parsed),
	}, nil
}

func buildSummary(parsed ddgResponse) string {
	var sections []string

	if parsed.AbstractText != "" {
		sections = append(sections, "Abstract: "+parsed.AbstractText)
		if parsed.AbstractURL != "" {
			sections = append(sections, "Source: "+parsed.AbstractURL)
		}
	}
	if parsed.Answer != "" {
		sections = append(sections, "Answer: "+parsed.Answer)
	}
	if parsed.Definition != "" {
		sections = append(sections, "Definition: "+parsed.Definition)
	}

	var topics []string
	for _, topic := range parsed.RelatedTopics {
		if len(topics) >= maxRelatedTopics {
			break
		}
		if topic.Text != "" {
			topics = append(topics, topic.Text)
		}
	}
	if len(topics) > 0 {
		sections = append(sections, "Related topics: "+strings.Join(topics, "; "))
	}

	if len(sections) == 0 {
		return "No results found for this query."
	}
	return strings.Join(sections, "\n\n")
}
