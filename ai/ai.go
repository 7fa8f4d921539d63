// Package ai generates the optional monthly report summary with Gemini.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"guevara/models"
)

// Service wraps the Gemini API for report summaries.
type Service struct {
	apiKey string
	model  string
}

// New creates a summary service. Returns nil when no API key is configured,
// which callers treat as "no summaries".
func New(apiKey string) *Service {
	if apiKey == "" {
		return nil
	}
	return &Service{apiKey: apiKey, model: "gemini-1.5-flash"}
}

// SummarizeReport asks the model for a short plain-text summary of one
// monthly report.
func (s *Service) SummarizeReport(ctx context.Context, report models.MonthlyReport) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return "", fmt.Errorf("ai: create client: %w", err)
	}
	defer client.Close()

	var sb strings.Builder
	sb.WriteString("You are writing a short monthly summary for the back office of a cosmetics shop.\n")
	fmt.Fprintf(&sb, "Month: %s. Revenue from delivered orders: %.2f.\nOrder counts by status:\n", report.Month, report.Revenue)
	for _, status := range models.AllStatuses {
		if count := report.Counts[status]; count > 0 {
			fmt.Fprintf(&sb, "- %s: %d\n", status, count)
		}
	}
	sb.WriteString("Write 2-3 sentences, plain text, no markdown.")

	model := client.GenerativeModel(s.model)
	resp, err := model.GenerateContent(ctx, genai.Text(sb.String()))
	if err != nil {
		return "", fmt.Errorf("ai: generate summary: %w", err)
	}

	var out strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
		break
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("ai: empty response")
	}
	return strings.TrimSpace(out.String()), nil
}
