package repositories

import (
	"context"
	"testing"
	"time"

	"slginvoice/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    InvoiceRepository
	context context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepo(mock)
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func testInvoice(date time.Time) *models.Invoice {
	return &models.Invoice{
		ID:                 uuid.New(),
		InvoiceDate:        date,
		SACCode:            "999293",
		ClientName:         "TO: THE COMMANDING OFFICER,",
		ClientAddress:      "BHOPAL, MADHYA PRADESH",
		ServiceDescription: "Classroom based training",
		TotalAmount:        decimal.NewFromInt(1000),
		State:              "Uttarakhand",
		CGSTRate:           decimal.NewFromInt(9),
		SGSTRate:           decimal.NewFromInt(9),
		IGSTRate:           decimal.NewFromInt(18),
		BaseAmount:         decimal.RequireFromString("847.46"),
		CGSTAmount:         decimal.RequireFromString("76.27"),
		SGSTAmount:         decimal.RequireFromString("76.27"),
		IGSTAmount:         decimal.Zero,
		RoundOff:           decimal.Zero,
	}
}

func (suite *InvoiceRepoTestSuite) TestCreate_AssignsSequenceNumber() {
	date := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	invoice := testInvoice(date)

	windowStart := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices WHERE invoice_date BETWEEN \$1 AND \$2`).
		WithArgs(windowStart, windowEnd).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(6))
	suite.mock.ExpectQuery(`INSERT INTO invoice_sequences`).
		WithArgs(2024, 7).
		WillReturnRows(pgxmock.NewRows([]string{"last_number"}).AddRow(7))
	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Create(suite.context, invoice)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SLG-2024-07", invoice.InvoiceNumber)
}

func (suite *InvoiceRepoTestSuite) TestCreate_MarchDateBelongsToPreviousFiscalYear() {
	date := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	invoice := testInvoice(date)

	windowStart := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices WHERE invoice_date BETWEEN \$1 AND \$2`).
		WithArgs(windowStart, windowEnd).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(10))
	suite.mock.ExpectQuery(`INSERT INTO invoice_sequences`).
		WithArgs(2024, 11).
		WillReturnRows(pgxmock.NewRows([]string{"last_number"}).AddRow(11))
	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Create(suite.context, invoice)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SLG-2024-11", invoice.InvoiceNumber)
}

func (suite *InvoiceRepoTestSuite) TestCreate_KeepsPresetNumber() {
	invoice := testInvoice(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC))
	invoice.InvoiceNumber = "SLG-2024-03"

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Create(suite.context, invoice)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SLG-2024-03", invoice.InvoiceNumber)
}

func (suite *InvoiceRepoTestSuite) TestCreate_DuplicateNumber() {
	invoice := testInvoice(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC))
	invoice.InvoiceNumber = "SLG-2024-03"

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_number_key"})
	suite.mock.ExpectRollback()

	err := suite.repo.Create(suite.context, invoice)
	assert.ErrorIs(suite.T(), err, ErrDuplicateInvoiceNumber)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_Success() {
	invoice := testInvoice(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC))
	invoice.InvoiceNumber = "SLG-2024-07"
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "invoice_number", "invoice_date", "sac_code", "client_name", "client_address",
		"contract_no", "contract_date", "service_description", "total_amount", "state",
		"cgst_rate", "sgst_rate", "igst_rate", "base_amount", "cgst_amount", "sgst_amount",
		"igst_amount", "round_off", "signature_id", "include_stamp", "stamp_id",
		"created_at", "updated_at",
	}).AddRow(
		invoice.ID, invoice.InvoiceNumber, invoice.InvoiceDate, invoice.SACCode,
		invoice.ClientName, invoice.ClientAddress, invoice.ContractNo, invoice.ContractDate,
		invoice.ServiceDescription, invoice.TotalAmount, invoice.State,
		invoice.CGSTRate, invoice.SGSTRate, invoice.IGSTRate,
		invoice.BaseAmount, invoice.CGSTAmount, invoice.SGSTAmount, invoice.IGSTAmount,
		invoice.RoundOff, invoice.SignatureID, invoice.IncludeStamp, invoice.StampID,
		now, now,
	)

	suite.mock.ExpectQuery(`SELECT (.+) FROM invoices WHERE id = \$1`).
		WithArgs(invoice.ID).
		WillReturnRows(rows)

	got, err := suite.repo.GetByID(suite.context, invoice.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SLG-2024-07", got.InvoiceNumber)
	assert.True(suite.T(), got.BaseAmount.Equal(invoice.BaseAmount))
	assert.True(suite.T(), got.TotalAmount.Equal(invoice.TotalAmount))
}

func (suite *InvoiceRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(`SELECT (.+) FROM invoices WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	got, err := suite.repo.GetByID(suite.context, id)
	assert.Nil(suite.T(), got)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *InvoiceRepoTestSuite) TestDelete_Success() {
	id := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM invoices WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, id)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestDelete_MissingIDReportsNotFound() {
	id := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM invoices WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, id)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *InvoiceRepoTestSuite) TestCountByInvoiceDateRange() {
	start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices WHERE invoice_date BETWEEN \$1 AND \$2`).
		WithArgs(start, end).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	count, err := suite.repo.CountByInvoiceDateRange(suite.context, start, end)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 42, count)
}

func (suite *InvoiceRepoTestSuite) TestLastSequence_NoRowMeansZero() {
	suite.mock.ExpectQuery(`SELECT last_number FROM invoice_sequences WHERE fiscal_year = \$1`).
		WithArgs(2024).
		WillReturnError(pgx.ErrNoRows)

	last, err := suite.repo.LastSequence(suite.context, 2024)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, last)
}
