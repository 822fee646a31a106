package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/researchx-app/researchx-gobackend/internal/config"
)

// AuthService forwards signups to the external auth provider. No password
// ever touches our own storage on this path.
type AuthService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAuthService(cfg *config.AuthConfig) *AuthService {
	return &AuthService{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Signup validates the credentials and forwards them to the provider's
// signup endpoint, returning the provider's user object as-is.
func (s *AuthService) Signup(ctx context.Context, email, password, fullName string) (map[string]interface{}, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationErrorf("a valid email is required")
	}
	if password == "" {
		return nil, validationErrorf("password is required")
	}
	if len(password) < 8 {
		return nil, validationErrorf("password must be at least 8 characters")
	}

	body := map[string]string{
		"email":    email,
		"password": password,
		"fullname": fullName,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signup request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/signup", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		var perr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		msg := "signup rejected"
		if json.Unmarshal(raw, &perr) == nil {
			if perr.Message != "" {
				msg = perr.Message
			} else if perr.Error != "" {
				msg = perr.Error
			}
		}
		return nil, &ProviderError{Provider: "auth", Status: resp.StatusCode, Message: msg}
	}

	var user map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode auth provider response: %v", err)
	}
	return user, nil
}
