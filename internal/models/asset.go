package models

import (
	"time"

	"github.com/google/uuid"
)

// Signature is a named signature image referenced by invoices. The image
// itself lives in object storage under ObjectKey.
type Signature struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ObjectKey string    `json:"object_key" db:"object_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Stamp is a named stamp image referenced by invoices.
type Stamp struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ObjectKey string    `json:"object_key" db:"object_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
