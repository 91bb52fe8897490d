package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles receipt upload HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// AttachReceipt handles POST /api/v1/transactions/:id/receipt
func (h *ReceiptHandler) AttachReceipt(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	// Without storage configured there is nothing to upload to
	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	transactionID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	metadata, err := h.receiptService.AttachReceipt(c.Request().Context(), workspaceID, transactionID, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, service.ErrReceiptTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrReceiptInvalidFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Unsupported format. Use JPEG or PNG"},
			})
		case errors.Is(err, service.ErrReceiptInvalidData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File is not a valid image"},
			})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("transaction_id", transactionID).Msg("Failed to attach receipt")
		return NewInternalError(c, "Failed to attach receipt")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("transaction_id", transactionID).Str("receipt_id", metadata.ID).Msg("Receipt attached")

	return c.JSON(http.StatusCreated, metadata)
}

// RemoveReceipt handles DELETE /api/v1/transactions/:id/receipt
func (h *ReceiptHandler) RemoveReceipt(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt deletion is disabled (storage not configured)")
	}

	transactionID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.receiptService.RemoveReceipt(c.Request().Context(), workspaceID, transactionID); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("transaction_id", transactionID).Msg("Failed to remove receipt")
		return NewInternalError(c, "Failed to remove receipt")
	}

	return c.NoContent(http.StatusNoContent)
}
