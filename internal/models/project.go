package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentState tracks how far a project's payment has progressed. The state
// is persisted before each external side effect so a verification that dies
// mid-chain can be re-driven from where it stopped.
type PaymentState string

const (
	PaymentPending          PaymentState = "pending"
	PaymentInitiated        PaymentState = "initiated"
	PaymentVerified         PaymentState = "verified"
	PaymentRecipientCreated PaymentState = "recipient_created"
	PaymentTransferred      PaymentState = "transferred"
	PaymentCompleted        PaymentState = "completed"
	PaymentFailed           PaymentState = "failed"
)

// InFlight reports whether a payment has been started but not finished.
// Initiating again while in flight is a conflict, not an overwrite.
func (s PaymentState) InFlight() bool {
	switch s {
	case PaymentInitiated, PaymentVerified, PaymentRecipientCreated, PaymentTransferred:
		return true
	}
	return false
}

// BankAccount is the settlement destination recorded on the project once
// payment starts.
type BankAccount struct {
	Code        string `bson:"code" json:"code"`
	Number      string `bson:"number" json:"number"`
	AccountName string `bson:"account_name" json:"account_name"`
}

// Project is the persisted unit of work being paid for. Payment routes are
// the only writers of the payment_* fields; nothing here ever deletes it.
type Project struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title             string             `bson:"title" json:"title"`
	AuthorID          string             `bson:"author_id" json:"author_id"`
	AuthorEmail       string             `bson:"author_email" json:"author_email"`
	Price             float64            `bson:"price" json:"price"`
	Status            string             `bson:"status" json:"status"` // e.g. "pending", "approved"
	PaymentStatus     PaymentState       `bson:"payment_status" json:"payment_status"`
	PaymentReference  string             `bson:"payment_reference,omitempty" json:"payment_reference,omitempty"`
	TransferReference string             `bson:"transfer_reference,omitempty" json:"transfer_reference,omitempty"`
	RecipientCode     string             `bson:"recipient_code,omitempty" json:"recipient_code,omitempty"`
	TransferCode      string             `bson:"transfer_code,omitempty" json:"transfer_code,omitempty"`
	TransactionFee    float64            `bson:"transaction_fee,omitempty" json:"transaction_fee,omitempty"`
	TotalAmount       float64            `bson:"total_amount,omitempty" json:"total_amount,omitempty"`
	AmountPaid        float64            `bson:"amount_paid,omitempty" json:"amount_paid,omitempty"`
	PaidAt            *time.Time         `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	BankAccount       *BankAccount       `bson:"bank_account,omitempty" json:"bank_account,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
