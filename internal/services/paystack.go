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

// PaymentGateway is the outbound surface of the payment provider. The
// orchestration service depends on this interface so tests can substitute
// a fake.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error)
	CreateTransferRecipient(ctx context.Context, req RecipientRequest) (string, error)
	InitiateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

type InitializeRequest struct {
	AmountKobo  int64
	Email       string
	Reference   string
	CallbackURL string
}

type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type VerifyResult struct {
	Status     string
	AmountKobo int64
	Reference  string
	Channel    string
	PaidAt     string
}

type RecipientRequest struct {
	Name          string
	AccountNumber string
	BankCode      string
}

type TransferRequest struct {
	AmountKobo    int64
	RecipientCode string
	Reference     string
	Reason        string
}

type TransferResult struct {
	TransferCode string
	Status       string
}

// PaystackService calls the Paystack REST API with bearer auth and a
// bounded timeout per request.
type PaystackService struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystackService(cfg *config.PaystackConfig) *PaystackService {
	return &PaystackService{
		secretKey: cfg.SecretKey,
		baseURL:   cfg.BaseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// paystackEnvelope is the common wrapper on every Paystack response.
type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *PaystackService) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	body := map[string]interface{}{
		"amount":       req.AmountKobo,
		"email":        req.Email,
		"reference":    req.Reference,
		"callback_url": req.CallbackURL,
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if err := s.post(ctx, "/transaction/initialize", body, &data); err != nil {
		return nil, err
	}

	return &InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

func (s *PaystackService) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	var data struct {
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Reference string `json:"reference"`
		Channel   string `json:"channel"`
		PaidAt    string `json:"paid_at"`
	}
	if err := s.get(ctx, "/transaction/verify/"+reference, &data); err != nil {
		return nil, err
	}

	return &VerifyResult{
		Status:     data.Status,
		AmountKobo: data.Amount,
		Reference:  data.Reference,
		Channel:    data.Channel,
		PaidAt:     data.PaidAt,
	}, nil
}

func (s *PaystackService) CreateTransferRecipient(ctx context.Context, req RecipientRequest) (string, error) {
	body := map[string]interface{}{
		"type":           "nuban",
		"name":           req.Name,
		"account_number": req.AccountNumber,
		"bank_code":      req.BankCode,
		"currency":       "NGN",
	}

	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := s.post(ctx, "/transferrecipient", body, &data); err != nil {
		return "", err
	}
	if data.RecipientCode == "" {
		return "", fmt.Errorf("paystack returned no recipient code")
	}
	return data.RecipientCode, nil
}

func (s *PaystackService) InitiateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	body := map[string]interface{}{
		"source":    "balance",
		"amount":    req.AmountKobo,
		"recipient": req.RecipientCode,
		"reference": req.Reference,
		"reason":    req.Reason,
	}

	var data struct {
		TransferCode string `json:"transfer_code"`
		Status       string `json:"status"`
	}
	if err := s.post(ctx, "/transfer", body, &data); err != nil {
		return nil, err
	}

	return &TransferResult{TransferCode: data.TransferCode, Status: data.Status}, nil
}

func (s *PaystackService) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %v", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, out)
}

func (s *PaystackService) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	return s.do(req, out)
}

func (s *PaystackService) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		var envelope paystackEnvelope
		msg := "request rejected"
		if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
			msg = envelope.Message
		}
		return &ProviderError{Provider: "paystack", Status: resp.StatusCode, Message: msg}
	}

	var envelope paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode paystack response: %v", err)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode paystack data: %v", err)
		}
	}
	return nil
}

var _ PaymentGateway = (*PaystackService)(nil)
