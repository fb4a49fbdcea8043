// FILE: internal/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartPaymentRequest struct {
	ItemKind string `json:"item_kind" validate:"required,oneof=premium_access note"`
	ItemId   string `json:"item_id" validate:"required_if=ItemKind note"`
}

type BankDetailsResponse struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	AmountNaira   int    `json:"amount_naira"`
	Reference     string `json:"reference"`
}

type PaymentIntentResponse struct {
	Id          uuid.UUID  `json:"id"`
	ItemKind    string     `json:"item_kind"`
	ItemId      string     `json:"item_id"`
	AmountNaira int        `json:"amount_naira"`
	Step        string     `json:"step"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
