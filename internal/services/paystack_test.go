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

func newPaystackTestService(t *testing.T, handler http.HandlerFunc) *PaystackService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPaystackService(&config.PaystackConfig{
		SecretKey: "sk_test_abc",
		BaseURL:   srv.URL,
	})
}

func TestInitializeTransaction(t *testing.T) {
	svc := newPaystackTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 105000, body["amount"])
		assert.Equal(t, "author@example.com", body["email"])
		assert.Equal(t, "RESEARCHX-p1-111", body["reference"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.paystack.com/abc",
				"access_code":       "abc",
				"reference":         "RESEARCHX-p1-111",
			},
		})
	})

	result, err := svc.InitializeTransaction(context.Background(), InitializeRequest{
		AmountKobo: 105000,
		Email:      "author@example.com",
		Reference:  "RESEARCHX-p1-111",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", result.AuthorizationURL)
	assert.Equal(t, "abc", result.AccessCode)
}

func TestVerifyTransaction(t *testing.T) {
	svc := newPaystackTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/RESEARCHX-p1-111", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]interface{}{
				"status":    "success",
				"amount":    105000,
				"reference": "RESEARCHX-p1-111",
				"channel":   "card",
				"paid_at":   "2026-08-30T11:00:00.000Z",
			},
		})
	})

	result, err := svc.VerifyTransaction(context.Background(), "RESEARCHX-p1-111")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, int64(105000), result.AmountKobo)
	assert.Equal(t, "card", result.Channel)
}

func TestCreateTransferRecipient(t *testing.T) {
	svc := newPaystackTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transferrecipient", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nuban", body["type"])
		assert.Equal(t, "0123456789", body["account_number"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data":   map[string]interface{}{"recipient_code": "RCP_123"},
		})
	})

	code, err := svc.CreateTransferRecipient(context.Background(), RecipientRequest{
		Name:          "ResearchX Ltd",
		AccountNumber: "0123456789",
		BankCode:      "058",
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP_123", code)
}

func TestInitiateTransfer(t *testing.T) {
	svc := newPaystackTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfer", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "balance", body["source"])
		assert.Equal(t, "RCP_123", body["recipient"])
		assert.EqualValues(t, 103425, body["amount"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data":   map[string]interface{}{"transfer_code": "TRF_456", "status": "pending"},
		})
	})

	result, err := svc.InitiateTransfer(context.Background(), TransferRequest{
		AmountKobo:    103425,
		RecipientCode: "RCP_123",
		Reference:     "RESEARCHX-TRF-x",
	})
	require.NoError(t, err)
	assert.Equal(t, "TRF_456", result.TransferCode)
	assert.Equal(t, "pending", result.Status)
}

func TestPaystackErrorCarriesProviderMessage(t *testing.T) {
	svc := newPaystackTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid key",
		})
	})

	_, err := svc.VerifyTransaction(context.Background(), "ref")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusUnauthorized, perr.Status)
	assert.Equal(t, "Invalid key", perr.Message)
}
