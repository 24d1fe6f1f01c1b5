// Package gemini provides a client for Google's Gemini AI API. It phrases a
// short natural-language briefing of a finished scheduling run. The briefing
// is purely presentational and never feeds back into scoring.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Briefing is the structured response requested from the model.
type Briefing struct {
	Recommendation    string `json:"recommendation"`
	ScheduleRationale string `json:"schedule_rationale"`
	RiskNotes         string `json:"risk_notes"`
}

// Client represents a Gemini API client.
type Client struct {
	apiKey string
	model  string
}

// NewClient creates a new Gemini API client.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}
	return &Client{apiKey: apiKey, model: strings.TrimPrefix(model, "models/")}
}

// Brief asks the model to summarize the ranked proposal described by prompt.
func (c *Client) Brief(ctx context.Context, prompt string, logger Logger) (*Briefing, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("no Gemini API key configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	temperature := float32(0.2)
	genConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  1000,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}

	resp, err := c.generateWithRetry(ctx, client, contents, genConfig, logger)
	if err != nil {
		return nil, err
	}
	return parseBriefing(resp, logger)
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"recommendation": {
				Type:        genai.TypeString,
				Description: "One-sentence recommendation naming the best proposed slot and why",
			},
			"schedule_rationale": {
				Type:        genai.TypeString,
				Description: "Short explanation of how the top candidates compare for this group",
			},
			"risk_notes": {
				Type:        genai.TypeString,
				Description: "Any caveats: tight buffers, missing optional participants, compromises applied",
			},
		},
		PropertyOrdering: []string{"recommendation", "schedule_rationale", "risk_notes"},
		Required:         []string{"recommendation", "schedule_rationale", "risk_notes"},
	}
}

// generateWithRetry executes the API call, retrying transient failures with
// exponential backoff and jitter.
func (c *Client) generateWithRetry(ctx context.Context, client *genai.Client, contents []*genai.Content, config *genai.GenerateContentConfig, logger Logger) (*genai.GenerateContentResponse, error) {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond
	jitter := 50 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)
		if err == nil {
			return resp, nil
		}
		if attempt == maxRetries {
			return nil, fmt.Errorf("gemini API call failed after %d attempts: %w", maxRetries+1, err)
		}
		if !isTransientError(err) {
			logger.Warn("non-transient Gemini API error, giving up", "error", err)
			return nil, fmt.Errorf("non-transient gemini API error: %w", err)
		}

		delay := baseDelay*time.Duration(1<<uint(attempt)) + time.Duration(rand.Int64N(int64(jitter)))
		logger.Debug("retrying Gemini API call", "attempt", attempt+1, "delay_ms", delay.Milliseconds(), "error", err.Error())
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("unexpected end of retry loop")
}

func isTransientError(err error) bool {
	errStr := strings.ToLower(err.Error())
	transientIndicators := []string{
		"rate limit", "quota", "timeout", "deadline", "unavailable",
		"internal server error", "502", "503", "504",
	}
	for _, indicator := range transientIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

func parseBriefing(resp *genai.GenerateContentResponse, logger Logger) (*Briefing, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in Gemini response")
	}
	text := candidate.Content.Parts[0].Text
	if text == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}

	var briefing Briefing
	if err := json.Unmarshal([]byte(text), &briefing); err != nil {
		logger.Warn("failed to parse Gemini JSON response", "error", err, "response_text", text)
		return nil, fmt.Errorf("failed to parse Gemini JSON response: %w", err)
	}
	if briefing.Recommendation == "" {
		return nil, fmt.Errorf("Gemini response missing recommendation")
	}
	briefing.Recommendation = collapse(briefing.Recommendation)
	briefing.ScheduleRationale = collapse(briefing.ScheduleRationale)
	briefing.RiskNotes = collapse(briefing.RiskNotes)
	return &briefing, nil
}

func collapse(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
