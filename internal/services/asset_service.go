package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"slginvoice/internal/models"
	"slginvoice/internal/repositories"

	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// AssetService manages the signature and stamp images referenced by
// invoices. Rows live in Postgres, images in object storage; deleting an
// asset nulls the reference on dependent invoices (FK policy) instead of
// cascading into them.
type AssetService interface {
	CreateSignature(ctx context.Context, name, contentType string, image io.Reader, size int64) (*models.Signature, error)
	ListSignatures(ctx context.Context) ([]*models.Signature, error)
	DeleteSignature(ctx context.Context, id uuid.UUID) error

	CreateStamp(ctx context.Context, name, contentType string, image io.Reader, size int64) (*models.Stamp, error)
	ListStamps(ctx context.Context) ([]*models.Stamp, error)
	DeleteStamp(ctx context.Context, id uuid.UUID) error

	SignatureImage(ctx context.Context, id uuid.UUID) ([]byte, error)
	StampImage(ctx context.Context, id uuid.UUID) ([]byte, error)
	SignatureURL(ctx context.Context, id uuid.UUID) (string, error)
	StampURL(ctx context.Context, id uuid.UUID) (string, error)
}

type assetService struct {
	signatureRepo repositories.SignatureRepository
	stampRepo     repositories.StampRepository
	minioSvc      MinioService
	bucket        string
}

func NewAssetService(signatureRepo repositories.SignatureRepository, stampRepo repositories.StampRepository, minioSvc MinioService, bucket string) AssetService {
	return &assetService{
		signatureRepo: signatureRepo,
		stampRepo:     stampRepo,
		minioSvc:      minioSvc,
		bucket:        bucket,
	}
}

func (s *assetService) CreateSignature(ctx context.Context, name, contentType string, image io.Reader, size int64) (*models.Signature, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	signature := &models.Signature{
		ID:        uuid.New(),
		Name:      name,
		ObjectKey: path.Join("signatures", uuid.NewString()),
	}
	if err := s.minioSvc.UploadImage(ctx, s.bucket, signature.ObjectKey, contentType, image, size); err != nil {
		return nil, fmt.Errorf("upload signature image: %w", err)
	}
	if err := s.signatureRepo.Create(ctx, signature); err != nil {
		// Best effort: do not leave an orphaned object behind.
		if delErr := s.minioSvc.DeleteImage(ctx, s.bucket, signature.ObjectKey); delErr != nil {
			log.Printf("Failed to clean up signature object %s: %v", signature.ObjectKey, delErr)
		}
		return nil, err
	}
	return signature, nil
}

func (s *assetService) ListSignatures(ctx context.Context) ([]*models.Signature, error) {
	return s.signatureRepo.List(ctx)
}

func (s *assetService) DeleteSignature(ctx context.Context, id uuid.UUID) error {
	signature, err := s.signatureRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.signatureRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.minioSvc.DeleteImage(ctx, s.bucket, signature.ObjectKey); err != nil {
		log.Printf("Failed to delete signature object %s: %v", signature.ObjectKey, err)
	}
	return nil
}

func (s *assetService) CreateStamp(ctx context.Context, name, contentType string, image io.Reader, size int64) (*models.Stamp, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	stamp := &models.Stamp{
		ID:        uuid.New(),
		Name:      name,
		ObjectKey: path.Join("stamps", uuid.NewString()),
	}
	if err := s.minioSvc.UploadImage(ctx, s.bucket, stamp.ObjectKey, contentType, image, size); err != nil {
		return nil, fmt.Errorf("upload stamp image: %w", err)
	}
	if err := s.stampRepo.Create(ctx, stamp); err != nil {
		if delErr := s.minioSvc.DeleteImage(ctx, s.bucket, stamp.ObjectKey); delErr != nil {
			log.Printf("Failed to clean up stamp object %s: %v", stamp.ObjectKey, delErr)
		}
		return nil, err
	}
	return stamp, nil
}

func (s *assetService) ListStamps(ctx context.Context) ([]*models.Stamp, error) {
	return s.stampRepo.List(ctx)
}

func (s *assetService) DeleteStamp(ctx context.Context, id uuid.UUID) error {
	stamp, err := s.stampRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.stampRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.minioSvc.DeleteImage(ctx, s.bucket, stamp.ObjectKey); err != nil {
		log.Printf("Failed to delete stamp object %s: %v", stamp.ObjectKey, err)
	}
	return nil
}

func (s *assetService) SignatureImage(ctx context.Context, id uuid.UUID) ([]byte, error) {
	signature, err := s.signatureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.minioSvc.GetImage(ctx, s.bucket, signature.ObjectKey)
}

func (s *assetService) StampImage(ctx context.Context, id uuid.UUID) ([]byte, error) {
	stamp, err := s.stampRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.minioSvc.GetImage(ctx, s.bucket, stamp.ObjectKey)
}

func (s *assetService) SignatureURL(ctx context.Context, id uuid.UUID) (string, error) {
	signature, err := s.signatureRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.minioSvc.GetPresignedURL(s.bucket, signature.ObjectKey, presignExpiry)
}

func (s *assetService) StampURL(ctx context.Context, id uuid.UUID) (string, error) {
	stamp, err := s.stampRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.minioSvc.GetPresignedURL(s.bucket, stamp.ObjectKey, presignExpiry)
}
