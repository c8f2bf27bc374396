package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"slginvoice/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for integration tests
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=slginvoice_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SampleInvoice returns an invoice with all derived fields populated for a
// tax-inclusive intra-state total of 1000 at 9% CGST and 9% SGST.
func SampleInvoice() *models.Invoice {
	now := time.Now().UTC()
	return &models.Invoice{
		ID:                 uuid.New(),
		InvoiceNumber:      "SLG-2025-01",
		InvoiceDate:        time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		SACCode:            "999293",
		ClientName:         "Oil and Natural Gas Corporation",
		ClientAddress:      "Tel Bhavan, Dehradun, Uttarakhand",
		ServiceDescription: "Commercial training and coaching services",
		TotalAmount:        decimal.NewFromInt(1000),
		State:              "Uttarakhand",
		CGSTRate:           decimal.NewFromInt(9),
		SGSTRate:           decimal.NewFromInt(9),
		IGSTRate:           decimal.Zero,
		BaseAmount:         decimal.RequireFromString("847.46"),
		CGSTAmount:         decimal.RequireFromString("76.27"),
		SGSTAmount:         decimal.RequireFromString("76.27"),
		IGSTAmount:         decimal.Zero,
		RoundOff:           decimal.Zero,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// InsertTestInvoice stores an invoice directly, bypassing number allocation
func InsertTestInvoice(t *testing.T, db *TestDB, invoice *models.Invoice) {
	t.Helper()

	query := `
		INSERT INTO invoices (id, invoice_number, invoice_date, sac_code, client_name, client_address,
			contract_no, contract_date, service_description, total_amount, state,
			cgst_rate, sgst_rate, igst_rate, base_amount, cgst_amount, sgst_amount, igst_amount,
			round_off, signature_id, include_stamp, stamp_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		invoice.ID, invoice.InvoiceNumber, invoice.InvoiceDate, invoice.SACCode,
		invoice.ClientName, invoice.ClientAddress, invoice.ContractNo, invoice.ContractDate,
		invoice.ServiceDescription, invoice.TotalAmount, invoice.State,
		invoice.CGSTRate, invoice.SGSTRate, invoice.IGSTRate,
		invoice.BaseAmount, invoice.CGSTAmount, invoice.SGSTAmount, invoice.IGSTAmount,
		invoice.RoundOff, invoice.SignatureID, invoice.IncludeStamp, invoice.StampID,
		invoice.CreatedAt, invoice.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to insert test invoice: %v", err)
	}
}
