package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/repository/storage"
)

const (
	MaxReceiptSize      = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth     = 50
	MinReceiptHeight    = 50
	ReceiptDisplayWidth = 1200
	ReceiptJPEGQuality  = 85

	// PresignedURLExpiry bounds how long a fetched receipt link stays valid
	PresignedURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrReceiptInvalidFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrReceiptInvalidData          = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
	ErrNoReceipt                   = errors.New("transaction has no receipt")
)

// allowedReceiptExtensions maps extensions to content types
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptService attaches receipt images to transactions: validates and
// re-encodes uploads, stores them privately, and hands out presigned URLs.
type ReceiptService struct {
	storage         storage.ReceiptRepository
	transactionRepo domain.TransactionRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ReceiptRepository, transactionRepo domain.TransactionRepository) *ReceiptService {
	return &ReceiptService{storage: storage, transactionRepo: transactionRepo}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// Attach validates, resizes, and stores a receipt image for a transaction,
// replacing any existing receipt.
func (s *ReceiptService) Attach(ctx context.Context, userID string, transactionID uuid.UUID, data []byte, filename string) (*domain.Transaction, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	transaction, err := s.transactionRepo.GetByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	// Re-encode as bounded-width JPEG; originals are not retained
	if img.Bounds().Dx() > ReceiptDisplayWidth {
		img = imaging.Resize(img, ReceiptDisplayWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: ReceiptJPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode receipt: %w", err)
	}

	objectPath := fmt.Sprintf("%s/receipts/%s/%s.jpg", userID, transactionID, uuid.New())

	path, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
	if err != nil {
		return nil, fmt.Errorf("failed to upload receipt: %w", err)
	}

	// Best-effort removal of the replaced object
	if transaction.ReceiptPath != nil {
		_ = s.storage.Delete(ctx, *transaction.ReceiptPath)
	}

	if err := s.transactionRepo.SetReceiptPath(userID, transactionID, &path); err != nil {
		_ = s.storage.Delete(ctx, path)
		return nil, err
	}

	transaction.ReceiptPath = &path
	return transaction, nil
}

// URL returns a presigned URL for a transaction's receipt
func (s *ReceiptService) URL(ctx context.Context, userID string, transactionID uuid.UUID) (string, error) {
	if !s.IsEnabled() {
		return "", ErrReceiptStorageNotConfigured
	}

	transaction, err := s.transactionRepo.GetByID(userID, transactionID)
	if err != nil {
		return "", err
	}
	if transaction.ReceiptPath == nil {
		return "", ErrNoReceipt
	}

	return s.storage.GeneratePresignedURL(ctx, *transaction.ReceiptPath, PresignedURLExpiry)
}

// Remove deletes a transaction's receipt from storage and clears the reference
func (s *ReceiptService) Remove(ctx context.Context, userID string, transactionID uuid.UUID) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageNotConfigured
	}

	transaction, err := s.transactionRepo.GetByID(userID, transactionID)
	if err != nil {
		return err
	}
	if transaction.ReceiptPath == nil {
		return ErrNoReceipt
	}

	if err := s.storage.Delete(ctx, *transaction.ReceiptPath); err != nil {
		return err
	}

	return s.transactionRepo.SetReceiptPath(userID, transactionID, nil)
}

// validateAndDecode validates the image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return nil, ErrReceiptInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrReceiptInvalidData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}
