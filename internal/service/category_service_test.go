package service

import (
	"testing"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)

	created, err := svc.CreateCategory(1, " Groceries ")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", created.Name)
}

func TestCategoryService_CreateCategory_Duplicate(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)

	_, err := svc.CreateCategory(1, "Groceries")
	require.NoError(t, err)

	_, err = svc.CreateCategory(1, "Groceries")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCategoryService_DeleteCategory_InUse(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)

	categoryRepo.AddCategory(&domain.Category{ID: 1, WorkspaceID: 1, Name: "Groceries"})
	categoryRepo.InUse[1] = true

	err := svc.DeleteCategory(1, 1)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)

	// Still present.
	_, err = categoryRepo.GetByID(1, 1)
	assert.NoError(t, err)
}

func TestCategoryService_DeleteCategory_Unused(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)

	categoryRepo.AddCategory(&domain.Category{ID: 1, WorkspaceID: 1, Name: "Groceries"})

	require.NoError(t, svc.DeleteCategory(1, 1))

	_, err := categoryRepo.GetByID(1, 1)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}
