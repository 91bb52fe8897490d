package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the create/update category request body
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          int32  `json:"id"`
	WorkspaceID int32  `json:"workspaceId"`
	Name        string `json:"name"`
	CreatedAt   string `json:"createdAt"`
}

func toCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          cat.ID,
		WorkspaceID: cat.WorkspaceID,
		Name:        cat.Name,
		CreatedAt:   cat.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(workspaceID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is too long"},
			})
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "Category already exists")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	categories, err := h.categoryService.GetCategories(workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get categories")
		return NewInternalError(c, "Failed to get categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateCategory handles PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.RenameCategory(workspaceID, id, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("category_id", id).Msg("Failed to update category")
		return NewInternalError(c, "Failed to update category")
	}

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		if errors.Is(err, domain.ErrCategoryInUse) {
			return NewConflictError(c, "Category is referenced by existing transactions")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("category_id", id).Msg("Failed to delete category")
		return NewInternalError(c, "Failed to delete category")
	}

	return c.NoContent(http.StatusNoContent)
}
