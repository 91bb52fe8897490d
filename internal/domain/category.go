package domain

import (
	"errors"
	"time"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category has transactions and cannot be deleted")
)

// Category is a workspace-scoped spending label. Keeping categories in a
// table (instead of free text) lets expense-cut scenarios be validated
// against a closed set at write time; a typo becomes a 400 instead of a
// scenario that silently never matches anything.
type Category struct {
	ID          int32      `json:"id"`
	WorkspaceID int32      `json:"workspaceId"`
	Name        string     `json:"name"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(workspaceID int32, id int32) (*Category, error)
	GetByName(workspaceID int32, name string) (*Category, error)
	GetAllByWorkspace(workspaceID int32) ([]*Category, error)
	Update(workspaceID int32, id int32, name string) (*Category, error)
	SoftDelete(workspaceID int32, id int32) error
	HasTransactions(workspaceID int32, id int32) (bool, error)
}
