package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/researchx-app/researchx-gobackend/internal/config"
)

// Text bounds enforced before anything is sent to the provider. Text over
// the maximum is truncated, not rejected.
const (
	MinTextLength = 40
	MaxTextLength = 25000
)

// SupportedLanguages is the provider's language allow-list.
var SupportedLanguages = map[string]bool{
	"en": true,
	"es": true,
	"fr": true,
	"de": true,
	"pt": true,
}

// Provider status values reported by the status route.
const (
	StatusDisabled    = "disabled"
	StatusOperational = "operational"
	StatusUnavailable = "unavailable"
)

type PlagiarismMatch struct {
	URL        string  `json:"url"`
	Title      string  `json:"title,omitempty"`
	Similarity float64 `json:"similarity"`
}

type PlagiarismResult struct {
	Score      float64           `json:"score"`
	Plagiarism float64           `json:"plagiarism"`
	Warnings   []string          `json:"warnings"`
	Language   string            `json:"language"`
	Matches    []PlagiarismMatch `json:"matches,omitempty"`
}

// PlagiarismService forwards text to the plagiarism detection provider.
type PlagiarismService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewPlagiarismService(cfg *config.PlagiarismConfig) *PlagiarismService {
	return &PlagiarismService{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Check validates and forwards text to the provider. Matches are populated
// only when detailed is set.
func (s *PlagiarismService) Check(ctx context.Context, text, language string, detailed bool) (*PlagiarismResult, error) {
	if text == "" {
		return nil, validationErrorf("text is required")
	}
	if len(text) < MinTextLength {
		return nil, validationErrorf("text must be at least %d characters", MinTextLength)
	}
	if language == "" {
		language = "en"
	}
	if !SupportedLanguages[language] {
		return nil, validationErrorf("unsupported language %q", language)
	}
	if len(text) > MaxTextLength {
		text = text[:MaxTextLength]
	}

	body := map[string]interface{}{
		"text":     text,
		"language": language,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plagiarism request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/plagiarism", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plagiarism request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		var perr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		msg := "request rejected"
		if json.Unmarshal(raw, &perr) == nil {
			if perr.Message != "" {
				msg = perr.Message
			} else if perr.Error != "" {
				msg = perr.Error
			}
		}
		return nil, &ProviderError{Provider: "plagiarism", Status: resp.StatusCode, Message: msg}
	}

	var providerResp struct {
		Score      float64           `json:"score"`
		Plagiarism float64           `json:"plagiarism"`
		Warnings   []string          `json:"warnings"`
		Language   string            `json:"language"`
		Sources    []PlagiarismMatch `json:"sources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&providerResp); err != nil {
		return nil, fmt.Errorf("failed to decode plagiarism response: %v", err)
	}

	result := &PlagiarismResult{
		Score:      providerResp.Score,
		Plagiarism: providerResp.Plagiarism,
		Warnings:   providerResp.Warnings,
		Language:   providerResp.Language,
	}
	if result.Language == "" {
		result.Language = language
	}
	if detailed {
		result.Matches = providerResp.Sources
	}
	return result, nil
}

// Status probes the provider once. No credential means disabled; a failed
// probe means unavailable. Nothing is retried.
func (s *PlagiarismService) Status(ctx context.Context) string {
	if s.apiKey == "" {
		return StatusDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/status", nil)
	if err != nil {
		return StatusUnavailable
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return StatusUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return StatusUnavailable
	}
	return StatusOperational
}
