package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slginvoice/internal/gst"
	"slginvoice/internal/models"
	"slginvoice/internal/numwords"
	"slginvoice/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrValidation wraps input rejections surfaced before anything touches the
// store.
var ErrValidation = errors.New("validation failed")

// maxCreateRetries bounds re-numbering attempts after a duplicate
// invoice_number collision.
const maxCreateRetries = 3

const defaultSACCode = "999293"

var rateUpperBound = decimal.NewFromInt(100)

// InvoiceServiceInterface is the single orchestration path for invoices.
// Creation runs validate, number, calculate, persist once; there is no edit
// or recompute transition afterward, only deletion.
type InvoiceServiceInterface interface {
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
	AmountInWords(invoice *models.Invoice) string
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository) InvoiceServiceInterface {
	return &invoiceService{invoiceRepo: invoiceRepo}
}

// validateInvoiceFinancialData rejects inputs the calculator would happily
// turn into nonsense. The calculator itself stays total over its domain.
func (s *invoiceService) validateInvoiceFinancialData(invoice *models.Invoice) error {
	if !invoice.TotalAmount.IsPositive() {
		return fmt.Errorf("%w: total amount must be positive", ErrValidation)
	}
	for field, rate := range map[string]decimal.Decimal{
		"cgst_rate": invoice.CGSTRate,
		"sgst_rate": invoice.SGSTRate,
		"igst_rate": invoice.IGSTRate,
	} {
		if rate.IsNegative() || rate.GreaterThan(rateUpperBound) {
			return fmt.Errorf("%w: %s must be between 0 and 100", ErrValidation, field)
		}
	}
	return nil
}

// CreateInvoice validates the draft, applies defaults, runs the GST
// reversal, and persists. Number assignment, calculation, and insert are
// atomic from the caller's point of view: the repository allocates the
// number inside the insert transaction, and a duplicate-number collision is
// retried with a fresh number a bounded number of times.
func (s *invoiceService) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	if err := s.validateInvoiceFinancialData(invoice); err != nil {
		return err
	}

	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	if invoice.InvoiceDate.IsZero() {
		now := time.Now().UTC()
		invoice.InvoiceDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if invoice.SACCode == "" {
		invoice.SACCode = defaultSACCode
	}

	breakdown := gst.Calculate(invoice.TotalAmount, invoice.State, gst.Rates{
		CGST: invoice.CGSTRate,
		SGST: invoice.SGSTRate,
		IGST: invoice.IGSTRate,
	})
	invoice.BaseAmount = breakdown.Base
	invoice.CGSTAmount = breakdown.CGST
	invoice.SGSTAmount = breakdown.SGST
	invoice.IGSTAmount = breakdown.IGST
	invoice.RoundOff = breakdown.RoundOff
	invoice.TotalAmount = breakdown.Total

	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = invoice.CreatedAt

	autoNumbered := invoice.InvoiceNumber == ""
	for attempt := 0; ; attempt++ {
		err := s.invoiceRepo.Create(ctx, invoice)
		if err == nil {
			return nil
		}
		if autoNumbered && errors.Is(err, repositories.ErrDuplicateInvoiceNumber) && attempt < maxCreateRetries {
			invoice.InvoiceNumber = ""
			continue
		}
		return err
	}
}

// GetInvoiceByID fetches a persisted invoice as stored. Nothing is
// recomputed on read.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, limit, offset)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.invoiceRepo.Delete(ctx, id)
}

// AmountInWords renders the stored integer total for the invoice footer,
// e.g. "One Thousand Rupees Only".
func (s *invoiceService) AmountInWords(invoice *models.Invoice) string {
	return numwords.Words(invoice.TotalAmount.IntPart()) + " Rupees Only"
}
