package services

import (
	"context"
	"testing"
	"time"

	"slginvoice/internal/models"
	"slginvoice/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountByInvoiceDateRange(ctx context.Context, start, end time.Time) (int, error) {
	args := m.Called(ctx, start, end)
	return args.Int(0), args.Error(1)
}

func (m *MockInvoiceRepository) LastSequence(ctx context.Context, fiscalYear int) (int, error) {
	args := m.Called(ctx, fiscalYear)
	return args.Int(0), args.Error(1)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func draftInvoice() *models.Invoice {
	return &models.Invoice{
		TotalAmount: dec("1000.00"),
		State:       "Uttarakhand",
		CGSTRate:    dec("9"),
		SGSTRate:    dec("9"),
		IGSTRate:    dec("18"),
	}
}

func TestCreateInvoice_ComputesBreakdownAndDefaults(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo)

	invoice := draftInvoice()
	repo.On("Create", mock.Anything, invoice).Return(nil).Once()

	err := svc.CreateInvoice(context.Background(), invoice)
	assert.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, invoice.ID)
	assert.Equal(t, "999293", invoice.SACCode)
	assert.False(t, invoice.InvoiceDate.IsZero())

	assert.True(t, invoice.BaseAmount.Equal(dec("847.46")), "base = %s", invoice.BaseAmount)
	assert.True(t, invoice.CGSTAmount.Equal(dec("76.27")))
	assert.True(t, invoice.SGSTAmount.Equal(dec("76.27")))
	assert.True(t, invoice.IGSTAmount.IsZero())
	assert.True(t, invoice.TotalAmount.Equal(dec("1000")))

	repo.AssertExpectations(t)
}

func TestCreateInvoice_InterStateUsesIGST(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo)

	invoice := draftInvoice()
	invoice.State = "Delhi"
	repo.On("Create", mock.Anything, invoice).Return(nil).Once()

	err := svc.CreateInvoice(context.Background(), invoice)
	assert.NoError(t, err)

	assert.True(t, invoice.CGSTAmount.IsZero())
	assert.True(t, invoice.SGSTAmount.IsZero())
	assert.True(t, invoice.IGSTAmount.Equal(dec("152.54")), "igst = %s", invoice.IGSTAmount)

	repo.AssertExpectations(t)
}

func TestCreateInvoice_RejectsNonPositiveTotal(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo)

	invoice := draftInvoice()
	invoice.TotalAmount = decimal.Zero

	err := svc.CreateInvoice(context.Background(), invoice)
	assert.ErrorIs(t, err, ErrValidation)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateInvoice_RejectsOutOfRangeRate(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo)

	invoice := draftInvoice()
	invoice.CGSTRate = dec("-1")

	err := svc.CreateInvoice(context.Background(), invoice)
	assert.ErrorIs(t, err, ErrValidation)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateInvoice_RetriesOnDuplicateNumber(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo)

	invoice := draftInvoice()
	repo.On("Create", mock.Anything, invoice).Return(repositories.ErrDuplicateInvoiceNumber).Once()
	repo.On("Create", mock.Anything, invoice).Return(nil).Once()

	err := svc.CreateInvoice(context.Background(), invoice)
	assert.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestCreateInvoice_NoRetryForExplicitNumber(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo)

	invoice := draftInvoice()
	invoice.InvoiceNumber = "SLG-2024-05"
	repo.On("Create", mock.Anything, invoice).Return(repositories.ErrDuplicateInvoiceNumber).Once()

	err := svc.CreateInvoice(context.Background(), invoice)
	assert.ErrorIs(t, err, repositories.ErrDuplicateInvoiceNumber)

	repo.AssertExpectations(t)
}

func TestGetInvoiceByID_DoesNotRecompute(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo)

	// A stored invoice whose derived fields deliberately disagree with what
	// a fresh calculation would produce; reads must return it untouched.
	stored := &models.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "SLG-2024-07",
		TotalAmount:   dec("1000"),
		State:         "Uttarakhand",
		CGSTRate:      dec("9"),
		SGSTRate:      dec("9"),
		BaseAmount:    dec("500.00"),
		CGSTAmount:    dec("250.00"),
		SGSTAmount:    dec("250.00"),
	}
	repo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

	got, err := svc.GetInvoiceByID(context.Background(), stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, "SLG-2024-07", got.InvoiceNumber)
	assert.True(t, got.BaseAmount.Equal(dec("500.00")))
	assert.True(t, got.CGSTAmount.Equal(dec("250.00")))
}

func TestDeleteInvoice_NotFoundPassesThrough(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo)

	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(repositories.ErrNotFound)

	err := svc.DeleteInvoice(context.Background(), id)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestAmountInWords(t *testing.T) {
	svc := NewInvoiceService(new(MockInvoiceRepository))

	invoice := &models.Invoice{TotalAmount: dec("118000")}
	assert.Equal(t, "One Lakh Eighteen Thousand Rupees Only", svc.AmountInWords(invoice))
}
