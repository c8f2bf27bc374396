package jobs

import (
	"context"
	"log"
	"time"

	"slginvoice/internal/gst"
	"slginvoice/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// SequenceAuditor runs background checks over invoice numbering. It compares
// the allocated sequence counter for the current fiscal year against the
// number of invoices actually stored in that window and logs any drift, which
// would indicate deletions or a manually assigned number outside the series.
type SequenceAuditor struct {
	scheduler   gocron.Scheduler
	invoiceRepo repositories.InvoiceRepository
}

// NewSequenceAuditor creates the auditor with a daily schedule registered.
func NewSequenceAuditor(invoiceRepo repositories.InvoiceRepository) (*SequenceAuditor, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	sa := &SequenceAuditor{
		scheduler:   scheduler,
		invoiceRepo: invoiceRepo,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(sa.AuditCurrentFiscalYear, context.Background()),
		gocron.WithName("invoice-sequence-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return sa, nil
}

// Start starts the scheduler
func (sa *SequenceAuditor) Start() {
	log.Printf("Starting invoice sequence auditor")
	sa.scheduler.Start()
}

// Stop stops the scheduler
func (sa *SequenceAuditor) Stop() error {
	log.Printf("Stopping invoice sequence auditor")
	return sa.scheduler.Shutdown()
}

// AuditCurrentFiscalYear performs one audit pass. Drift is logged, never
// repaired; deleted invoices legitimately leave gaps in the series.
func (sa *SequenceAuditor) AuditCurrentFiscalYear(ctx context.Context) error {
	fiscalYear := gst.FiscalYear(time.Now().UTC())
	start, end := gst.FiscalYearWindow(fiscalYear)

	lastSeq, err := sa.invoiceRepo.LastSequence(ctx, fiscalYear)
	if err != nil {
		log.Printf("Sequence audit failed to read counter for FY %d: %v", fiscalYear, err)
		return err
	}

	count, err := sa.invoiceRepo.CountByInvoiceDateRange(ctx, start, end)
	if err != nil {
		log.Printf("Sequence audit failed to count invoices for FY %d: %v", fiscalYear, err)
		return err
	}

	if count > lastSeq {
		log.Printf("Sequence audit FY %d: %d invoices stored but counter at %d, numbers assigned outside the series", fiscalYear, count, lastSeq)
	} else if lastSeq > count {
		log.Printf("Sequence audit FY %d: counter at %d with %d invoices stored, %d gaps from deletions", fiscalYear, lastSeq, count, lastSeq-count)
	} else {
		log.Printf("Sequence audit FY %d: counter %d matches stored invoice count", fiscalYear, lastSeq)
	}

	return nil
}
