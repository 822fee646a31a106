package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchx-app/researchx-gobackend/internal/config"
)

func newAuthTestService(t *testing.T, handler http.HandlerFunc) (*AuthService, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	svc := NewAuthService(&config.AuthConfig{APIKey: "ak_test", BaseURL: srv.URL})
	return svc, &calls
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"missing email", "", "longenough"},
		{"malformed email", "not-an-email", "longenough"},
		{"missing password", "a@b.com", ""},
		{"short password", "a@b.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, calls := newAuthTestService(t, func(w http.ResponseWriter, r *http.Request) {})

			_, err := svc.Signup(context.Background(), tt.email, tt.password, "Jordan Doe")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Zero(t, *calls)
		})
	}
}

func TestSignupForwardsToProvider(t *testing.T) {
	svc, _ := newAuthTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/signup", r.URL.Path)
		assert.Equal(t, "Bearer ak_test", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jordan@example.com", body["email"], "email must be normalized")

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "usr_1",
			"email": "jordan@example.com",
		})
	})

	user, err := svc.Signup(context.Background(), "  Jordan@Example.com ", "longenough", "Jordan Doe")
	require.NoError(t, err)
	assert.Equal(t, "usr_1", user["id"])
}

func TestSignupProviderError(t *testing.T) {
	svc, _ := newAuthTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "email already exists"})
	})

	_, err := svc.Signup(context.Background(), "a@b.com", "longenough", "")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusConflict, perr.Status)
	assert.Equal(t, "email already exists", perr.Message)
}
