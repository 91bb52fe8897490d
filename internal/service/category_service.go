package service

import (
	"strings"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// CategoryService handles the workspace's spending-category tag set
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(workspaceID int32, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if _, err := s.categoryRepo.GetByName(workspaceID, name); err == nil {
		return nil, domain.ErrAlreadyExists
	}

	return s.categoryRepo.Create(&domain.Category{
		WorkspaceID: workspaceID,
		Name:        name,
	})
}

// GetCategories retrieves all categories for a workspace
func (s *CategoryService) GetCategories(workspaceID int32) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByWorkspace(workspaceID)
}

// RenameCategory updates a category's name
func (s *CategoryService) RenameCategory(workspaceID int32, id int32, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	return s.categoryRepo.Update(workspaceID, id, name)
}

// DeleteCategory removes a category that has no transactions
func (s *CategoryService) DeleteCategory(workspaceID int32, id int32) error {
	inUse, err := s.categoryRepo.HasTransactions(workspaceID, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrCategoryInUse
	}
	return s.categoryRepo.SoftDelete(workspaceID, id)
}
