package domain

import "context"

type ProductRepository interface {
	Find(ctx context.Context, filter ProductFilter) ([]Product, error)
	FindSelected(ctx context.Context) ([]ProductSummary, error)
	FindByID(ctx context.Context, id string) (*Product, error)

	Insert(ctx context.Context, product *Product) (*Product, error)
	UpdateByID(ctx context.Context, id string, product *Product) (*Product, error)
	UpdateGallery(ctx context.Context, id string, imageURLs []string) (*Product, error)

	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	FindFeatured(ctx context.Context, limit int64) ([]Product, error)
}
