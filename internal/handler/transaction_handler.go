package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	AccountID   int32  `json:"accountId"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	IsTransfer  bool   `json:"isTransfer"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          int32   `json:"id"`
	WorkspaceID int32   `json:"workspaceId"`
	AccountID   int32   `json:"accountId"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	IsTransfer  bool    `json:"isTransfer"`
	ReceiptURL  *string `json:"receiptUrl,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents a page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		WorkspaceID: t.WorkspaceID,
		AccountID:   t.AccountID,
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Type:        string(t.Type),
		Category:    t.Category,
		Date:        t.TransactionDate.Format("2006-01-02"),
		IsTransfer:  t.IsTransfer,
		ReceiptURL:  t.ReceiptURL,
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	tx, err := h.transactionService.CreateTransaction(workspaceID, service.CreateTransactionInput{
		AccountID:   req.AccountID,
		Description: req.Description,
		Amount:      amount,
		Type:        domain.TransactionType(req.Type),
		Category:    req.Category,
		Date:        date,
		IsTransfer:  req.IsTransfer,
	})
	if err != nil {
		if verr := transactionValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("transaction_id", tx.ID).Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filters, err := parseTransactionFilters(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	page, err := h.transactionService.GetTransactions(workspaceID, filters)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	data := make([]TransactionResponse, len(page.Data))
	for i, tx := range page.Data {
		data[i] = toTransactionResponse(tx)
	}

	return c.JSON(http.StatusOK, PaginatedTransactionsResponse{
		Data:       data,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	tx, err := h.transactionService.GetTransactionByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("transaction_id", id).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	tx, err := h.transactionService.UpdateTransaction(workspaceID, id, service.UpdateTransactionInput{
		Description: req.Description,
		Amount:      amount,
		Type:        domain.TransactionType(req.Type),
		Category:    req.Category,
		Date:        date,
		IsTransfer:  req.IsTransfer,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if verr := transactionValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("transaction_id", id).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

func transactionValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrTransactionAmountInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrTransactionTypeInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be 'income' or 'expense'"},
		})
	case errors.Is(err, domain.ErrTransactionAccountInvalid), errors.Is(err, domain.ErrAccountNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "accountId", Message: "Account does not exist"},
		})
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category does not exist in this workspace"},
		})
	}
	return nil
}

func parseTransactionFilters(c echo.Context) (*domain.TransactionFilters, error) {
	filters := &domain.TransactionFilters{
		Page:     1,
		PageSize: domain.DefaultPageSize,
	}

	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 32)
		if err != nil || page < 1 {
			return nil, errors.New("page must be a positive integer")
		}
		filters.Page = int32(page)
	}
	if v := c.QueryParam("pageSize"); v != "" {
		size, err := strconv.ParseInt(v, 10, 32)
		if err != nil || size < 1 {
			return nil, errors.New("pageSize must be a positive integer")
		}
		filters.PageSize = int32(size)
	}
	if v := c.QueryParam("accountId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, errors.New("accountId must be an integer")
		}
		accountID := int32(id)
		filters.AccountID = &accountID
	}
	if v := c.QueryParam("startDate"); v != "" {
		start, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, errors.New("startDate must be in YYYY-MM-DD format")
		}
		filters.StartDate = &start
	}
	if v := c.QueryParam("endDate"); v != "" {
		end, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, errors.New("endDate must be in YYYY-MM-DD format")
		}
		filters.EndDate = &end
	}
	if v := c.QueryParam("type"); v != "" {
		txType := domain.TransactionType(v)
		if txType != domain.TransactionTypeIncome && txType != domain.TransactionTypeExpense {
			return nil, errors.New("type must be 'income' or 'expense'")
		}
		filters.Type = &txType
	}
	if v := c.QueryParam("category"); v != "" {
		category := v
		filters.Category = &category
	}

	return filters, nil
}
