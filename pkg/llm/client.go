package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/nikogura/docx-tailor/pkg/backoff"
	"github.com/pkg/errors"
)

const (
	// ClaudeAPIEndpoint is the Anthropic API endpoint.
	ClaudeAPIEndpoint = "https://api.anthropic.com/v1/messages"
	// ClaudeModel is the default model.
	ClaudeModel = "claude-sonnet-4-20250514"
	// ClaudeAPIVersion is the API version.
	ClaudeAPIVersion = "2023-06-01"
)

// Client represents a Claude API client.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	endpoint   string
	retry      backoff.Config
}

// NewClient creates a new Claude API client.
func NewClient(apiKey, model string) (client *Client) {
	if model == "" {
		model = ClaudeModel
	}
	client = &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: ClaudeAPIEndpoint,
		retry:    backoff.DefaultConfig,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	return client
}

// ExtractKeywords pulls a ranked ATS keyword list from a job description.
func (c *Client) ExtractKeywords(ctx context.Context, jobDescription string) (keywords []Keyword, err error) {
	prompt := buildKeywordsPrompt(jobDescription)

	var responseText string
	responseText, err = c.sendRequest(ctx, prompt)
	if err != nil {
		err = errors.Wrap(err, "keyword extraction request failed")
		return keywords, err
	}

	cleanedText := stripMarkdownCodeFences(responseText)

	var parsed keywordsResponse
	err = json.Unmarshal([]byte(cleanedText), &parsed)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse keywords response: %s", responseText)
		return keywords, err
	}

	keywords = parsed.KeywordsRanked
	return keywords, err
}

// TailorResume rewrites the master resume's structured text for one job
// posting. The response is expected to use the same ===SECTION=== marker
// vocabulary as the input; the decoder tolerates deviations.
func (c *Client) TailorResume(ctx context.Context, req TailorRequest) (structuredText string, err error) {
	prompt := buildTailorPrompt(req)

	structuredText, err = c.sendRequest(ctx, prompt)
	if err != nil {
		err = errors.Wrap(err, "resume tailoring request failed")
		return structuredText, err
	}

	structuredText = stripMarkdownCodeFences(structuredText)
	return structuredText, err
}

// GenerateCoverLetter produces a plain-text cover letter for one job
// posting.
func (c *Client) GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (letter string, err error) {
	prompt := buildCoverLetterPrompt(req)

	letter, err = c.sendRequest(ctx, prompt)
	if err != nil {
		err = errors.Wrap(err, "cover letter request failed")
		return letter, err
	}

	letter = stripMarkdownCodeFences(letter)
	return letter, err
}

// sendRequest sends a request to Claude API with retry on transient
// failures.
func (c *Client) sendRequest(ctx context.Context, prompt string) (responseText string, err error) {
	responseText, err = backoff.Do(ctx, c.retry, func() (text string, sendErr error) {
		text, sendErr = c.sendOnce(ctx, prompt)
		return text, sendErr
	})
	return responseText, err
}

func (c *Client) sendOnce(ctx context.Context, prompt string) (responseText string, err error) {
	claudeReq := ClaudeRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	var reqBody []byte
	reqBody, err = json.Marshal(claudeReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return responseText, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return responseText, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", ClaudeAPIVersion)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return responseText, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return responseText, err
	}

	if backoff.RetryableStatus(resp.StatusCode) {
		err = &backoff.StatusError{StatusCode: resp.StatusCode}
		return responseText, err
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		return responseText, err
	}

	var claudeResp ClaudeResponse
	err = json.Unmarshal(respBody, &claudeResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse Claude response: %s", string(respBody))
		return responseText, err
	}

	if len(claudeResp.Content) == 0 {
		err = errors.New("no content in Claude response")
		return responseText, err
	}

	responseText = claudeResp.Content[0].Text

	return responseText, err
}

// stripMarkdownCodeFences removes markdown code fences from responses.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = text

	// Check if text starts with ```json and ends with ```
	if len(cleaned) > 7 && cleaned[:7] == "```json" {
		// Find first newline after ```json
		start := 7
		for start < len(cleaned) && cleaned[start] != '\n' {
			start++
		}
		start++ // skip the newline

		// Find last ```
		end := len(cleaned)
		if end > 3 && cleaned[end-3:] == "```" {
			end -= 3
		}

		// Remove trailing whitespace before ```
		for end > 0 && (cleaned[end-1] == '\n' || cleaned[end-1] == ' ' || cleaned[end-1] == '\r') {
			end--
		}

		cleaned = cleaned[start:end]
	}

	return cleaned
}
