// FILE: internal/entity/payment_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStep string
type PaymentItemKind string

const (
	PaymentStepSelection       PaymentStep = "selection"
	PaymentStepBankDetails     PaymentStep = "bank_details"
	PaymentStepConfirmTransfer PaymentStep = "confirm_transfer"
	PaymentStepProcessing      PaymentStep = "processing"
	PaymentStepSuccess         PaymentStep = "success"

	PaymentItemPremium PaymentItemKind = "premium_access"
	PaymentItemNote    PaymentItemKind = "note"
)

// PaymentIntent tracks one pass through the manual bank-transfer wizard.
// Steps only ever advance; there is no reject transition.
type PaymentIntent struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	ItemKind    PaymentItemKind
	ItemId      string
	AmountNaira int
	Step        PaymentStep
	ReceiptPath string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *PaymentIntent) Completed() bool {
	return p.Step == PaymentStepSuccess
}

// BankAccount is the settlement account shown at the bank_details step.
type BankAccount struct {
	BankName      string
	AccountName   string
	AccountNumber string
}
