package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a record addressed by identifier does
	// not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateInvoiceNumber is returned when an insert collides with an
	// existing invoice_number.
	ErrDuplicateInvoiceNumber = errors.New("duplicate invoice number")
)

// DB is the slice of pgxpool.Pool the repositories need. pgxmock's pool
// interface satisfies it too, which is what the repository tests rely on.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// rowQuerier is satisfied by both DB and pgx.Tx, so queries can run inside
// or outside a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateInvoiceNumber
	}
	return err
}
