package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // registered for receipt decoding
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/repository/storage"
)

const (
	MaxReceiptSize        = 5 * 1024 * 1024 // 5MB
	ReceiptThumbnailWidth = 200
	ReceiptDisplayWidth   = 1000
	receiptJPEGQuality    = 85
)

var (
	ErrReceiptTooLarge          = errors.New("file too large. Maximum size is 5MB")
	ErrReceiptInvalidFormat     = errors.New("invalid format. Supported: JPEG, PNG")
	ErrReceiptInvalidData       = errors.New("invalid image data")
	ErrReceiptStorageNotEnabled = errors.New("receipt storage not configured")
)

var allowedReceiptExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ReceiptMetadata holds the stored variants of an uploaded receipt
type ReceiptMetadata struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
}

// ReceiptService attaches receipt images to transactions: validates the
// upload, renders a thumbnail and display variant, stores both, and
// records the display URL on the transaction.
type ReceiptService struct {
	storage         storage.ObjectRepository
	transactionRepo domain.TransactionRepository
}

// NewReceiptService creates a new ReceiptService. A nil storage
// disables uploads.
func NewReceiptService(storage storage.ObjectRepository, transactionRepo domain.TransactionRepository) *ReceiptService {
	return &ReceiptService{storage: storage, transactionRepo: transactionRepo}
}

// IsEnabled indicates whether receipt storage is configured
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// AttachReceipt validates and stores a receipt image for a transaction
func (s *ReceiptService) AttachReceipt(ctx context.Context, workspaceID int32, transactionID int32, data []byte, filename string) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotEnabled
	}

	if _, err := s.transactionRepo.GetByID(workspaceID, transactionID); err != nil {
		return nil, err
	}

	img, err := decodeReceipt(data, filename)
	if err != nil {
		return nil, err
	}

	receiptID := uuid.New().String()
	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ReceiptThumbnailWidth},
		{"display", ReceiptDisplayWidth},
	}

	urls := make(map[string]string)
	for _, variant := range variants {
		processed := img
		if img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: receiptJPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode receipt: %w", err)
		}

		objectPath := fmt.Sprintf("%d/receipts/%d/%s_%s.jpg", workspaceID, transactionID, receiptID, variant.name)
		url, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanup(ctx, urls)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		urls[variant.name] = url
	}

	displayURL := urls["display"]
	if err := s.transactionRepo.SetReceiptURL(workspaceID, transactionID, &displayURL); err != nil {
		s.cleanup(ctx, urls)
		return nil, err
	}

	return &ReceiptMetadata{
		ID:           receiptID,
		ThumbnailURL: urls["thumb"],
		DisplayURL:   displayURL,
	}, nil
}

// RemoveReceipt detaches and deletes a transaction's receipt, best effort
// on the storage side
func (s *ReceiptService) RemoveReceipt(ctx context.Context, workspaceID int32, transactionID int32) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageNotEnabled
	}

	tx, err := s.transactionRepo.GetByID(workspaceID, transactionID)
	if err != nil {
		return err
	}
	if tx.ReceiptURL == nil {
		return nil
	}
	// Copy the URL before clearing it; the repository may hand back the
	// stored record by reference.
	receiptURL := *tx.ReceiptURL

	if err := s.transactionRepo.SetReceiptURL(workspaceID, transactionID, nil); err != nil {
		return err
	}

	base := strings.TrimSuffix(receiptURL, "_display.jpg")
	for _, variant := range []string{"_display.jpg", "_thumb.jpg"} {
		_ = s.storage.DeleteByURL(ctx, base+variant)
	}
	return nil
}

func (s *ReceiptService) cleanup(ctx context.Context, urls map[string]string) {
	for _, url := range urls {
		_ = s.storage.DeleteByURL(ctx, url)
	}
}

func decodeReceipt(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedReceiptExtensions[ext] {
		return nil, ErrReceiptInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrReceiptInvalidData
	}
	return img, nil
}
