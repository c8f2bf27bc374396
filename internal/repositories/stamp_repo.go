package repositories

import (
	"context"
	"errors"

	"slginvoice/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type StampRepository interface {
	Create(ctx context.Context, stamp *models.Stamp) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Stamp, error)
	List(ctx context.Context) ([]*models.Stamp, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type stampRepo struct {
	db DB
}

func NewStampRepo(db DB) StampRepository {
	return &stampRepo{db: db}
}

func (r *stampRepo) Create(ctx context.Context, stamp *models.Stamp) error {
	query := `
		INSERT INTO stamps (id, name, object_key, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.Exec(ctx, query, stamp.ID, stamp.Name, stamp.ObjectKey)
	return mapPgError(err)
}

func (r *stampRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Stamp, error) {
	stamp := &models.Stamp{}
	query := `
		SELECT id, name, object_key, created_at
		FROM stamps
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&stamp.ID, &stamp.Name, &stamp.ObjectKey, &stamp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return stamp, nil
}

func (r *stampRepo) List(ctx context.Context) ([]*models.Stamp, error) {
	query := `
		SELECT id, name, object_key, created_at
		FROM stamps
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stamps []*models.Stamp
	for rows.Next() {
		stamp := &models.Stamp{}
		if err := rows.Scan(&stamp.ID, &stamp.Name, &stamp.ObjectKey, &stamp.CreatedAt); err != nil {
			return nil, err
		}
		stamps = append(stamps, stamp)
	}
	return stamps, rows.Err()
}

func (r *stampRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stamps WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
