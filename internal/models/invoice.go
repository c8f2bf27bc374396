package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the central record. TotalAmount is entered tax-inclusive and
// overwritten with the rounded total at creation; the derived amount fields
// are computed once at creation and never recomputed afterward.
type Invoice struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	InvoiceNumber      string          `json:"invoice_number" db:"invoice_number"`
	InvoiceDate        time.Time       `json:"invoice_date" db:"invoice_date"`
	SACCode            string          `json:"sac_code" db:"sac_code"`
	ClientName         string          `json:"client_name" db:"client_name"`
	ClientAddress      string          `json:"client_address" db:"client_address"`
	ContractNo         *string         `json:"contract_no" db:"contract_no"`
	ContractDate       *time.Time      `json:"contract_date" db:"contract_date"`
	ServiceDescription string          `json:"service_description" db:"service_description"`
	TotalAmount        decimal.Decimal `json:"total_amount" db:"total_amount"`
	State              string          `json:"state" db:"state"`
	CGSTRate           decimal.Decimal `json:"cgst_rate" db:"cgst_rate"`
	SGSTRate           decimal.Decimal `json:"sgst_rate" db:"sgst_rate"`
	IGSTRate           decimal.Decimal `json:"igst_rate" db:"igst_rate"`
	BaseAmount         decimal.Decimal `json:"base_amount" db:"base_amount"`
	CGSTAmount         decimal.Decimal `json:"cgst_amount" db:"cgst_amount"`
	SGSTAmount         decimal.Decimal `json:"sgst_amount" db:"sgst_amount"`
	IGSTAmount         decimal.Decimal `json:"igst_amount" db:"igst_amount"`
	RoundOff           decimal.Decimal `json:"round_off" db:"round_off"`
	SignatureID        *uuid.UUID      `json:"signature_id" db:"signature_id"`
	IncludeStamp       bool            `json:"include_stamp" db:"include_stamp"`
	StampID            *uuid.UUID      `json:"stamp_id" db:"stamp_id"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}
