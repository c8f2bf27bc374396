package repositories

import (
	"context"
	"errors"

	"slginvoice/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SignatureRepository interface {
	Create(ctx context.Context, signature *models.Signature) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Signature, error)
	List(ctx context.Context) ([]*models.Signature, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type signatureRepo struct {
	db DB
}

func NewSignatureRepo(db DB) SignatureRepository {
	return &signatureRepo{db: db}
}

func (r *signatureRepo) Create(ctx context.Context, signature *models.Signature) error {
	query := `
		INSERT INTO signatures (id, name, object_key, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.Exec(ctx, query, signature.ID, signature.Name, signature.ObjectKey)
	return mapPgError(err)
}

func (r *signatureRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Signature, error) {
	signature := &models.Signature{}
	query := `
		SELECT id, name, object_key, created_at
		FROM signatures
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&signature.ID, &signature.Name, &signature.ObjectKey, &signature.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return signature, nil
}

func (r *signatureRepo) List(ctx context.Context) ([]*models.Signature, error) {
	query := `
		SELECT id, name, object_key, created_at
		FROM signatures
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signatures []*models.Signature
	for rows.Next() {
		signature := &models.Signature{}
		if err := rows.Scan(&signature.ID, &signature.Name, &signature.ObjectKey, &signature.CreatedAt); err != nil {
			return nil, err
		}
		signatures = append(signatures, signature)
	}
	return signatures, rows.Err()
}

// Delete removes a signature. Invoices referencing it keep existing; the
// foreign key is declared ON DELETE SET NULL so their reference is nulled.
func (r *signatureRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM signatures WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
