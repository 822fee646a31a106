package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/researchx-app/researchx-gobackend/internal/config"
	"github.com/researchx-app/researchx-gobackend/internal/models"
)

// transferNamespace seeds deterministic transfer references so a retried
// verification reuses the same reference and the provider dedupes the payout.
var transferNamespace = uuid.MustParse("9b2e6f5a-1c38-4ce1-8f0d-4e7ab2c90d11")

// PaymentService chains the provider calls for a project payment and keeps
// the project record's payment state current after every step.
type PaymentService struct {
	projects ProjectStore
	gateway  PaymentGateway
	cfg      *config.PaystackConfig
}

func NewPaymentService(projects ProjectStore, gateway PaymentGateway, cfg *config.PaystackConfig) *PaymentService {
	return &PaymentService{projects: projects, gateway: gateway, cfg: cfg}
}

// InitiationResult is what the client needs to send the payer to the
// provider's hosted payment page.
type InitiationResult struct {
	AuthorizationURL string  `json:"authorization_url"`
	Reference        string  `json:"reference"`
	Fee              float64 `json:"fee"`
	Total            float64 `json:"total"`
}

// Initiate starts a payment for the project: validates the price, computes
// the platform fee, initializes the provider transaction and records the
// reference on the project. A payment already in flight is a conflict; the
// stored reference is never silently overwritten.
func (s *PaymentService) Initiate(ctx context.Context, projectID string) (*InitiationResult, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Price <= 0 {
		return nil, validationErrorf("project has no valid price")
	}
	if project.PaymentStatus.InFlight() {
		return nil, fmt.Errorf("%w: payment already in flight with reference %s", ErrConflict, project.PaymentReference)
	}
	if project.PaymentStatus == models.PaymentCompleted {
		return nil, fmt.Errorf("%w: project is already paid for", ErrConflict)
	}

	fee := project.Price * s.cfg.FeeRate
	total := project.Price + fee
	reference := fmt.Sprintf("RESEARCHX-%s-%d", projectID, time.Now().UnixMilli())

	init, err := s.gateway.InitializeTransaction(ctx, InitializeRequest{
		AmountKobo:  int64(math.Round(total * 100)),
		Email:       project.AuthorEmail,
		Reference:   reference,
		CallbackURL: s.cfg.CallbackURL,
	})
	if err != nil {
		log.Printf("Failed to initialize transaction for project %s: %v", projectID, err)
		return nil, err
	}

	err = s.projects.Update(ctx, projectID, bson.M{
		"payment_reference": reference,
		"payment_status":    models.PaymentInitiated,
		"transaction_fee":   fee,
		"total_amount":      total,
		"bank_account": &models.BankAccount{
			Code:        s.cfg.BankCode,
			Number:      s.cfg.BankAccount,
			AccountName: s.cfg.BankAccountName,
		},
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Payment initiated: project=%s reference=%s total=%.2f", projectID, reference, total)
	return &InitiationResult{
		AuthorizationURL: init.AuthorizationURL,
		Reference:        reference,
		Fee:              fee,
		Total:            total,
	}, nil
}

// Verify confirms a payment with the provider and, when the charge
// succeeded, sweeps the funds to the settlement account. Each external side
// effect is committed to the project record before the next one runs, so a
// verification that died mid-chain resumes from its last persisted state.
// The record reaches "completed" only after the transfer call succeeded.
func (s *PaymentService) Verify(ctx context.Context, projectID, reference string) (*models.Project, error) {
	if reference == "" {
		return nil, validationErrorf("transaction reference is required")
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.PaymentStatus == models.PaymentCompleted {
		// Retried verification of a finished payment is a no-op.
		return project, nil
	}

	result, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	if result.Status != "success" {
		if uerr := s.projects.Update(ctx, projectID, bson.M{"payment_status": models.PaymentFailed}); uerr != nil {
			log.Printf("Failed to mark project %s payment failed: %v", projectID, uerr)
		}
		return nil, validationErrorf("payment was not successful: provider status %q", result.Status)
	}

	state := project.PaymentStatus
	amountPaid := float64(result.AmountKobo) / 100

	if state != models.PaymentVerified && state != models.PaymentRecipientCreated && state != models.PaymentTransferred {
		now := time.Now()
		err := s.projects.UpdatePaymentState(ctx, projectID,
			[]models.PaymentState{models.PaymentPending, models.PaymentInitiated, models.PaymentFailed},
			bson.M{
				"payment_status":    models.PaymentVerified,
				"payment_reference": reference,
				"amount_paid":       amountPaid,
				"paid_at":           now,
			})
		if err != nil {
			return nil, err
		}
		state = models.PaymentVerified
	}

	recipientCode := project.RecipientCode
	if state == models.PaymentVerified {
		if recipientCode == "" {
			recipientCode, err = s.gateway.CreateTransferRecipient(ctx, RecipientRequest{
				Name:          s.cfg.BankAccountName,
				AccountNumber: s.cfg.BankAccount,
				BankCode:      s.cfg.BankCode,
			})
			if err != nil {
				log.Printf("Failed to create transfer recipient for project %s: %v", projectID, err)
				return nil, err
			}
		}
		err := s.projects.UpdatePaymentState(ctx, projectID,
			[]models.PaymentState{models.PaymentVerified},
			bson.M{
				"payment_status": models.PaymentRecipientCreated,
				"recipient_code": recipientCode,
			})
		if err != nil {
			return nil, err
		}
		state = models.PaymentRecipientCreated
	}

	if state == models.PaymentRecipientCreated {
		transferRef := transferReference(projectID, reference)
		payout := int64(math.Round(float64(result.AmountKobo) * (1 - s.cfg.TransferFeeRate)))
		transfer, err := s.gateway.InitiateTransfer(ctx, TransferRequest{
			AmountKobo:    payout,
			RecipientCode: recipientCode,
			Reference:     transferRef,
			Reason:        "ResearchX project " + projectID,
		})
		if err != nil {
			log.Printf("Transfer failed for project %s: %v", projectID, err)
			return nil, err
		}
		err = s.projects.UpdatePaymentState(ctx, projectID,
			[]models.PaymentState{models.PaymentRecipientCreated},
			bson.M{
				"payment_status":     models.PaymentTransferred,
				"transfer_reference": transferRef,
				"transfer_code":      transfer.TransferCode,
			})
		if err != nil {
			return nil, err
		}
		state = models.PaymentTransferred
	}

	if state == models.PaymentTransferred {
		err := s.projects.UpdatePaymentState(ctx, projectID,
			[]models.PaymentState{models.PaymentTransferred},
			bson.M{
				"payment_status": models.PaymentCompleted,
				"status":         "approved",
			})
		if err != nil {
			return nil, err
		}
	}

	log.Printf("Payment completed: project=%s reference=%s amount=%.2f", projectID, reference, amountPaid)
	return s.projects.FindByID(ctx, projectID)
}

// transferReference derives the payout reference from the project and the
// provider's charge reference. It is stable across retries: the provider
// rejects a second transfer carrying the same reference, which is what
// keeps "at most one payout per successful verification" true.
func transferReference(projectID, chargeReference string) string {
	id := uuid.NewSHA1(transferNamespace, []byte(projectID+"|"+chargeReference))
	return "RESEARCHX-TRF-" + id.String()
}
