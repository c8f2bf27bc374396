package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slginvoice/internal/gst"
	"slginvoice/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByInvoiceDateRange(ctx context.Context, start, end time.Time) (int, error)
	LastSequence(ctx context.Context, fiscalYear int) (int, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, invoice_number, invoice_date, sac_code, client_name, client_address, contract_no, contract_date, service_description, total_amount, state, cgst_rate, sgst_rate, igst_rate, base_amount, cgst_amount, sgst_amount, igst_amount, round_off, signature_id, include_stamp, stamp_id, created_at, updated_at`

// Create inserts a new invoice. When no invoice number has been supplied one
// is assigned from the fiscal-year sequence inside the same transaction as
// the insert, so concurrent creations cannot observe the same sequence value.
func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	if invoice.InvoiceNumber == "" {
		number, err := r.nextInvoiceNumber(ctx, tx, invoice.InvoiceDate)
		if err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		invoice.InvoiceNumber = number
	}

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query,
		invoice.ID, invoice.InvoiceNumber, invoice.InvoiceDate, invoice.SACCode,
		invoice.ClientName, invoice.ClientAddress, invoice.ContractNo, invoice.ContractDate,
		invoice.ServiceDescription, invoice.TotalAmount, invoice.State,
		invoice.CGSTRate, invoice.SGSTRate, invoice.IGSTRate,
		invoice.BaseAmount, invoice.CGSTAmount, invoice.SGSTAmount, invoice.IGSTAmount,
		invoice.RoundOff, invoice.SignatureID, invoice.IncludeStamp, invoice.StampID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return mapPgError(err)
	}

	return tx.Commit(ctx)
}

// nextInvoiceNumber allocates the next sequence number for the fiscal year
// of the invoice date. A fiscal year's first allocation seeds the sequence
// row from the count of invoices already dated inside that fiscal window, so
// data predating the sequence table keeps numbering without gaps.
func (r *invoiceRepo) nextInvoiceNumber(ctx context.Context, tx pgx.Tx, invoiceDate time.Time) (string, error) {
	fiscalYear := gst.FiscalYear(invoiceDate)
	start, end := gst.FiscalYearWindow(fiscalYear)

	count, err := countInWindow(ctx, tx, start, end)
	if err != nil {
		return "", fmt.Errorf("count invoices in fiscal window: %w", err)
	}

	query := `
		INSERT INTO invoice_sequences (fiscal_year, last_number, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (fiscal_year)
		DO UPDATE SET
			last_number = invoice_sequences.last_number + 1,
			updated_at = NOW()
		RETURNING last_number
	`
	var sequence int
	if err := tx.QueryRow(ctx, query, fiscalYear, count+1).Scan(&sequence); err != nil {
		return "", fmt.Errorf("advance invoice sequence: %w", err)
	}

	return fmt.Sprintf("SLG-%d-%02d", fiscalYear, sequence), nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.InvoiceDate, &invoice.SACCode,
		&invoice.ClientName, &invoice.ClientAddress, &invoice.ContractNo, &invoice.ContractDate,
		&invoice.ServiceDescription, &invoice.TotalAmount, &invoice.State,
		&invoice.CGSTRate, &invoice.SGSTRate, &invoice.IGSTRate,
		&invoice.BaseAmount, &invoice.CGSTAmount, &invoice.SGSTAmount, &invoice.IGSTAmount,
		&invoice.RoundOff, &invoice.SignatureID, &invoice.IncludeStamp, &invoice.StampID,
		&invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(
			&invoice.ID, &invoice.InvoiceNumber, &invoice.InvoiceDate, &invoice.SACCode,
			&invoice.ClientName, &invoice.ClientAddress, &invoice.ContractNo, &invoice.ContractDate,
			&invoice.ServiceDescription, &invoice.TotalAmount, &invoice.State,
			&invoice.CGSTRate, &invoice.SGSTRate, &invoice.IGSTRate,
			&invoice.BaseAmount, &invoice.CGSTAmount, &invoice.SGSTAmount, &invoice.IGSTAmount,
			&invoice.RoundOff, &invoice.SignatureID, &invoice.IncludeStamp, &invoice.StampID,
			&invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// Delete removes an invoice. Deleting an identifier that does not exist
// reports ErrNotFound rather than silent success.
func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByInvoiceDateRange counts invoices whose invoice_date lies within the
// inclusive [start, end] range.
func (r *invoiceRepo) CountByInvoiceDateRange(ctx context.Context, start, end time.Time) (int, error) {
	return countInWindow(ctx, r.db, start, end)
}

func countInWindow(ctx context.Context, q rowQuerier, start, end time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM invoices WHERE invoice_date BETWEEN $1 AND $2`
	if err := q.QueryRow(ctx, query, start, end).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// LastSequence reports the last allocated sequence number for a fiscal year,
// or zero when the year has no sequence row yet.
func (r *invoiceRepo) LastSequence(ctx context.Context, fiscalYear int) (int, error) {
	var last int
	query := `SELECT last_number FROM invoice_sequences WHERE fiscal_year = $1`
	err := r.db.QueryRow(ctx, query, fiscalYear).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last, nil
}
