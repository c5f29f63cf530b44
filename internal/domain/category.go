package domain

import "context"

// CategoryRepository is the boundary to the external category collection.
// Only existence-by-id is consulted by this service; category CRUD lives
// elsewhere.
type CategoryRepository interface {
	GetCategoryByID(ctx context.Context, id string) (*Category, error)
}
