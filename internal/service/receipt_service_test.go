package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

// fakeObjectRepository is an in-memory stand-in for the S3 repository
type fakeObjectRepository struct {
	objects   map[string][]byte
	uploadErr error
}

func newFakeObjectRepository() *fakeObjectRepository {
	return &fakeObjectRepository{objects: make(map[string][]byte)}
}

func (f *fakeObjectRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	body, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	f.objects[objectPath] = body
	return f.GenerateURL(objectPath), nil
}

func (f *fakeObjectRepository) Delete(ctx context.Context, objectPath string) error {
	delete(f.objects, objectPath)
	return nil
}

func (f *fakeObjectRepository) DeleteByURL(ctx context.Context, objectURL string) error {
	for path := range f.objects {
		if f.GenerateURL(path) == objectURL {
			delete(f.objects, path)
		}
	}
	return nil
}

func (f *fakeObjectRepository) GenerateURL(objectPath string) string {
	return fmt.Sprintf("https://storage.test/receipts/%s", objectPath)
}

// createReceiptImage renders a solid test image in the given format
func createReceiptImage(width, height int, format string) ([]byte, string) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 0, G: 128, B: 0, A: 255})
		}
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		png.Encode(&buf, img)
		return buf.Bytes(), "receipt.png"
	default:
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		return buf.Bytes(), "receipt.jpg"
	}
}

func newReceiptFixture() (*ReceiptService, *fakeObjectRepository, *testutil.MockTransactionRepository) {
	objectRepo := newFakeObjectRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:          1,
		WorkspaceID: 1,
		AccountID:   1,
		Description: "Office supplies",
		Amount:      decimal.NewFromInt(40),
		Type:        domain.TransactionTypeExpense,
		Category:    "Supplies",
	})
	return NewReceiptService(objectRepo, transactionRepo), objectRepo, transactionRepo
}

func TestAttachReceipt_StoresVariantsAndURL(t *testing.T) {
	svc, objectRepo, transactionRepo := newReceiptFixture()
	data, filename := createReceiptImage(1600, 1200, "jpeg")

	meta, err := svc.AttachReceipt(context.Background(), 1, 1, data, filename)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if meta.ID == "" {
		t.Error("expected a receipt ID")
	}
	if meta.ThumbnailURL == "" || meta.DisplayURL == "" {
		t.Errorf("expected both variant URLs, got %q / %q", meta.ThumbnailURL, meta.DisplayURL)
	}
	if len(objectRepo.objects) != 2 {
		t.Errorf("expected 2 stored objects, got %d", len(objectRepo.objects))
	}

	tx, err := transactionRepo.GetByID(1, 1)
	if err != nil {
		t.Fatalf("expected transaction, got %v", err)
	}
	if tx.ReceiptURL == nil || *tx.ReceiptURL != meta.DisplayURL {
		t.Error("expected display URL recorded on the transaction")
	}
}

func TestAttachReceipt_PNGAccepted(t *testing.T) {
	svc, _, _ := newReceiptFixture()
	data, filename := createReceiptImage(100, 100, "png")

	if _, err := svc.AttachReceipt(context.Background(), 1, 1, data, filename); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestAttachReceipt_TooLarge(t *testing.T) {
	svc, _, _ := newReceiptFixture()
	data := make([]byte, MaxReceiptSize+1)

	_, err := svc.AttachReceipt(context.Background(), 1, 1, data, "receipt.jpg")
	if !errors.Is(err, ErrReceiptTooLarge) {
		t.Errorf("expected ErrReceiptTooLarge, got %v", err)
	}
}

func TestAttachReceipt_InvalidFormat(t *testing.T) {
	svc, _, _ := newReceiptFixture()
	data, _ := createReceiptImage(100, 100, "jpeg")

	_, err := svc.AttachReceipt(context.Background(), 1, 1, data, "receipt.gif")
	if !errors.Is(err, ErrReceiptInvalidFormat) {
		t.Errorf("expected ErrReceiptInvalidFormat, got %v", err)
	}
}

func TestAttachReceipt_InvalidData(t *testing.T) {
	svc, _, _ := newReceiptFixture()

	_, err := svc.AttachReceipt(context.Background(), 1, 1, []byte("not an image"), "receipt.jpg")
	if !errors.Is(err, ErrReceiptInvalidData) {
		t.Errorf("expected ErrReceiptInvalidData, got %v", err)
	}
}

func TestAttachReceipt_UnknownTransaction(t *testing.T) {
	svc, _, _ := newReceiptFixture()
	data, filename := createReceiptImage(100, 100, "jpeg")

	_, err := svc.AttachReceipt(context.Background(), 1, 99, data, filename)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestAttachReceipt_UploadFailureLeavesTransactionUntouched(t *testing.T) {
	svc, objectRepo, transactionRepo := newReceiptFixture()
	objectRepo.uploadErr = errors.New("bucket unavailable")
	data, filename := createReceiptImage(100, 100, "jpeg")

	if _, err := svc.AttachReceipt(context.Background(), 1, 1, data, filename); err == nil {
		t.Fatal("expected an error")
	}

	tx, _ := transactionRepo.GetByID(1, 1)
	if tx.ReceiptURL != nil {
		t.Error("expected no receipt URL after failed upload")
	}
}

func TestRemoveReceipt_DetachesAndDeletes(t *testing.T) {
	svc, objectRepo, transactionRepo := newReceiptFixture()
	data, filename := createReceiptImage(100, 100, "jpeg")

	if _, err := svc.AttachReceipt(context.Background(), 1, 1, data, filename); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.RemoveReceipt(context.Background(), 1, 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tx, _ := transactionRepo.GetByID(1, 1)
	if tx.ReceiptURL != nil {
		t.Error("expected receipt URL cleared")
	}
	if len(objectRepo.objects) != 0 {
		t.Errorf("expected stored objects deleted, %d remain", len(objectRepo.objects))
	}
}

func TestRemoveReceipt_NoReceiptIsNoOp(t *testing.T) {
	svc, _, _ := newReceiptFixture()

	if err := svc.RemoveReceipt(context.Background(), 1, 1); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestReceiptService_Disabled(t *testing.T) {
	svc := NewReceiptService(nil, testutil.NewMockTransactionRepository())

	if svc.IsEnabled() {
		t.Error("expected service to be disabled without storage")
	}
	if _, err := svc.AttachReceipt(context.Background(), 1, 1, nil, "receipt.jpg"); !errors.Is(err, ErrReceiptStorageNotEnabled) {
		t.Errorf("expected ErrReceiptStorageNotEnabled, got %v", err)
	}
	if err := svc.RemoveReceipt(context.Background(), 1, 1); !errors.Is(err, ErrReceiptStorageNotEnabled) {
		t.Errorf("expected ErrReceiptStorageNotEnabled, got %v", err)
	}
}
