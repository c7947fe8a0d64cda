package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.RubricJudge = (*Judge)(nil)

// Judge implements skillreview.RubricJudge using Google Gemini.
type Judge struct {
	client GenerativeClient
	model  string
}

// NewJudge creates a new Judge.
func NewJudge(client GenerativeClient, model string) *Judge {
	return &Judge{client: client, model: model}
}

// Judge evaluates whether the output satisfies the given criterion.
func (j *Judge) Judge(ctx context.Context, criterion, output string) (*skillreview.RubricResult, error) {
	prompt := BuildJudgePrompt(criterion, output)

	contents := []*Content{{
		Parts: []*Part{{Text: prompt}},
	}}

	config := BuildJudgeConfig()

	resp, err := j.client.GenerateContent(ctx, j.model, contents, config)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("gemini: returned nil response")
	}

	var verdict struct {
		Passed    bool   `json:"passed"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(resp.Text), &verdict); err != nil {
		return nil, fmt.Errorf("gemini: failed to parse response: %w", err)
	}

	return &skillreview.RubricResult{
		Passed:    verdict.Passed,
		Reasoning: verdict.Reasoning,
	}, nil
}

// BuildJudgePrompt creates the user prompt for a rubric evaluation.
func BuildJudgePrompt(criterion, output string) string {
	var sb strings.Builder
	sb.WriteString("## Criterion\n\n")
	sb.WriteString(criterion)
	sb.WriteString("\n\n## Output\n\n")
	sb.WriteString(output)
	sb.WriteString("\n\n## Task\n\nDecide whether the output satisfies the criterion.\n")
	return sb.String()
}

// BuildJudgeConfig returns the generation config for rubric evaluations:
// zero temperature and a response schema constraining output to a verdict.
func BuildJudgeConfig() *GenerateContentConfig {
	temp := float32(0)
	return &GenerateContentConfig{
		SystemInstruction: &Content{
			Parts: []*Part{{
				Text: `You are a strict evaluator. Judge whether the output satisfies the criterion. Pass only when the criterion is clearly met; when in doubt, fail and explain what is missing.`,
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   rubricSchema(),
	}
}

// rubricSchema constrains generation to a pass/fail verdict with reasoning.
func rubricSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"passed":    {Type: "boolean"},
			"reasoning": {Type: "string", Description: "Short explanation for the verdict"},
		},
		Required:         []string{"passed", "reasoning"},
		PropertyOrdering: []string{"passed", "reasoning"},
	}
}
