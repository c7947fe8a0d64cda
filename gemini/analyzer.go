// Package gemini implements the analyzer collaborator using Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.Analyzer = (*Analyzer)(nil)

// DefaultAnalyzeTimeout is the default timeout for a single analyze call.
const DefaultAnalyzeTimeout = 120 * time.Second

// Analyzer implements skillreview.Analyzer using Google Gemini.
type Analyzer struct {
	client  GenerativeClient
	model   string
	timeout time.Duration
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithTimeout sets the timeout for API calls.
func WithTimeout(d time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		a.timeout = d
	}
}

// NewAnalyzer creates a new Analyzer. The model is the default; a request
// may override it per call.
func NewAnalyzer(client GenerativeClient, model string, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		client:  client,
		model:   model,
		timeout: DefaultAnalyzeTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze submits one unit of content and parses the findings Gemini
// reports for it. An empty findings array is a clean result.
func (a *Analyzer) Analyze(ctx context.Context, req skillreview.AnalyzeRequest) (*skillreview.AnalyzeResult, error) {
	// Apply timeout to context
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = a.model
	}

	contents := []*Content{{
		Parts: []*Part{{Text: req.Content}},
	}}

	config := BuildAnalyzeConfig(req.System, req.MaxTokens)

	resp, err := a.client.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("gemini: returned nil response")
	}

	var findings []skillreview.Finding
	if err := json.Unmarshal([]byte(resp.Text), &findings); err != nil {
		return nil, fmt.Errorf("gemini: failed to parse response: %w", err)
	}

	usage := skillreview.Usage{
		InputTokens:     resp.Usage.InputTokens,
		OutputTokens:    resp.Usage.OutputTokens,
		CacheReadTokens: resp.Usage.CacheReadTokens,
	}
	usage.CostUSD = estimateCost(model, usage)

	return &skillreview.AnalyzeResult{
		Findings: findings,
		Usage:    usage,
	}, nil
}

// BuildAnalyzeConfig returns the generation config for analyze calls: the
// skill-derived system prompt plus a response schema constraining output
// to a findings array.
func BuildAnalyzeConfig(system string, maxTokens int) *GenerateContentConfig {
	temp := float32(0.2) // Low temperature for consistent review output
	return &GenerateContentConfig{
		SystemInstruction: &Content{
			Parts: []*Part{{Text: system}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   findingsSchema(),
		MaxOutputTokens:  int32(maxTokens),
	}
}

// findingsSchema constrains generation to a JSON array of findings.
func findingsSchema() *Schema {
	location := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"path":       {Type: "string"},
			"start_line": {Type: "integer"},
			"end_line":   {Type: "integer"},
		},
		Required: []string{"path", "start_line"},
	}
	return &Schema{
		Type: "array",
		Items: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"id":       {Type: "string"},
				"severity": {Type: "string", Enum: []string{"critical", "high", "medium", "low", "info"}},
				"title":    {Type: "string"},
				"description": {
					Type:        "string",
					Description: "Why this is a problem and how to address it",
				},
				"location": location,
				"fix": {
					Type: "object",
					Properties: map[string]*Schema{
						"replacement": {Type: "string"},
						"location":    location,
					},
					Required: []string{"replacement", "location"},
				},
			},
			Required:         []string{"severity", "title"},
			PropertyOrdering: []string{"id", "severity", "title", "description", "location", "fix"},
		},
	}
}

// modelCosts holds per-million-token USD prices used for cost estimates.
// Models not listed estimate as zero; token counts still aggregate.
var modelCosts = map[string]struct{ input, output float64 }{
	"gemini-3-flash-preview": {input: 0.50, output: 3.00},
	"gemini-2.5-pro":         {input: 1.25, output: 10.00},
	"gemini-2.5-flash":       {input: 0.30, output: 2.50},
}

// estimateCost converts token counts into a USD estimate for the model.
func estimateCost(model string, u skillreview.Usage) float64 {
	c, ok := modelCosts[model]
	if !ok {
		return 0
	}
	return float64(u.InputTokens)/1e6*c.input + float64(u.OutputTokens)/1e6*c.output
}

// GenerativeClient abstracts the Gemini API for testing.
type GenerativeClient interface {
	GenerateContent(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error)
}

// Content represents a message in a Gemini conversation.
type Content struct {
	Parts []*Part
}

// Part represents a part of a message.
type Part struct {
	Text string
}

// GenerateContentConfig holds configuration for content generation.
type GenerateContentConfig struct {
	SystemInstruction *Content
	Temperature       *float32
	MaxOutputTokens   int32
	ResponseMIMEType  string
	ResponseSchema    *Schema
	ThinkingLevel     string // "", "MINIMAL", "LOW", "MEDIUM", "HIGH"
}

// Schema represents the structure for controlled JSON generation.
type Schema struct {
	Type             string             // object, array, string, integer, number, boolean
	Properties       map[string]*Schema // For object types
	Items            *Schema            // For array types
	Enum             []string           // For string enums
	Required         []string           // Required property names
	PropertyOrdering []string           // Order of properties in output
	Description      string             // Field description
}

// GenerateContentResponse holds the response from content generation.
type GenerateContentResponse struct {
	Text  string
	Usage Usage
}

// Usage reports the token accounting for one generation call. Counts the
// API does not report stay zero.
type Usage struct {
	InputTokens     int64
	OutputTokens    int64
	CacheReadTokens int64
}

// MockGenerativeClient is a mock implementation of GenerativeClient for testing.
type MockGenerativeClient struct {
	GenerateContentFn func(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error)
}

func (m *MockGenerativeClient) GenerateContent(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error) {
	return m.GenerateContentFn(ctx, model, contents, config)
}

// APIError represents an error from the Gemini API with HTTP status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError with the given status code and message.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}
