package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog_service/internal/domain"
	"catalog_service/internal/upload"
)

// ProductInput carries the client-supplied fields of a product write.
// Category is the referenced category id as sent on the wire; Image is only
// honored on full updates (creation derives it from the uploaded file).
type ProductInput struct {
	Name            string
	Description     string
	RichDescription string
	Image           string
	Brand           string
	Price           float64
	Category        string
	CountInStock    int
	Rating          float64
	NumReviews      int
	IsFeatured      bool
}

// ImageIngestor is the slice of the upload pipeline this service consumes.
type ImageIngestor interface {
	IngestSingle(ctx context.Context, f *upload.File, baseURL string) (string, error)
	IngestGallery(ctx context.Context, files []*upload.File, baseURL string) ([]string, error)
}

type ProductUseCase interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	ListSelected(ctx context.Context) ([]domain.ProductSummary, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, in ProductInput, file *upload.File, baseURL string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error)
	UpdateGallery(ctx context.Context, id string, files []*upload.File, baseURL string) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CountProducts(ctx context.Context) (int64, error)
	FeaturedProducts(ctx context.Context, limit int64) ([]domain.Product, error)
}

type productUseCase struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.CategoryRepository
	ingestor     ImageIngestor
	log          *logrus.Logger
}

func NewProductUseCase(pRepo domain.ProductRepository, cRepo domain.CategoryRepository, ingestor ImageIngestor, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		ingestor:     ingestor,
		log:          logger,
	}
}

// validateCategory resolves the referenced category or fails with
// ErrInvalidCategory. A malformed id and a well-formed but nonexistent id
// are treated identically.
func (uc *productUseCase) validateCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := uc.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			uc.log.Warnf("Use Case: Category '%s' did not resolve: %v", id, err)
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCategory, id)
		}
		uc.log.Errorf("Use Case: Category lookup for '%s' failed: %v", id, err)
		return nil, err
	}
	return category, nil
}

func (uc *productUseCase) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := uc.productRepo.Find(ctx, filter)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}

	// Expand the category reference of each listed product. A reference that
	// no longer resolves is left unexpanded; deletion does not cascade.
	resolved := map[string]*domain.Category{}
	for i := range products {
		id := products[i].CategoryID.Hex()
		category, seen := resolved[id]
		if !seen {
			category, _ = uc.categoryRepo.GetCategoryByID(ctx, id)
			resolved[id] = category
		}
		products[i].Category = category
	}
	return products, nil
}

func (uc *productUseCase) ListSelected(ctx context.Context) ([]domain.ProductSummary, error) {
	summaries, err := uc.productRepo.FindSelected(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list product summaries: %v", err)
		return nil, fmt.Errorf("could not retrieve product summaries: %w", err)
	}
	return summaries, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to get product ID %s: %v", id, err)
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, in ProductInput, file *upload.File, baseURL string) (*domain.Product, error) {
	category, err := uc.validateCategory(ctx, in.Category)
	if err != nil {
		return nil, err
	}

	imageURL, err := uc.ingestor.IngestSingle(ctx, file, baseURL)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:            in.Name,
		Description:     in.Description,
		RichDescription: in.RichDescription,
		Image:           imageURL,
		Brand:           in.Brand,
		Price:           in.Price,
		CategoryID:      category.ID,
		CountInStock:    in.CountInStock,
		Rating:          in.Rating,
		NumReviews:      in.NumReviews,
		IsFeatured:      in.IsFeatured,
	}

	created, err := uc.productRepo.Insert(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", in.Name, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Product '%s' created with ID %s", created.Name, created.ID.Hex())
	return created, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		uc.log.Warnf("Use Case: Attempted update with malformed product ID '%s'", id)
		return nil, fmt.Errorf("%w: malformed id '%s'", domain.ErrInvalidID, id)
	}

	category, err := uc.validateCategory(ctx, in.Category)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:            in.Name,
		Description:     in.Description,
		RichDescription: in.RichDescription,
		Image:           in.Image,
		Brand:           in.Brand,
		Price:           in.Price,
		CategoryID:      category.ID,
		CountInStock:    in.CountInStock,
		Rating:          in.Rating,
		NumReviews:      in.NumReviews,
		IsFeatured:      in.IsFeatured,
	}

	updated, err := uc.productRepo.UpdateByID(ctx, id, product)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to update product ID %s: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Product updated with ID %s", id)
	return updated, nil
}

func (uc *productUseCase) UpdateGallery(ctx context.Context, id string, files []*upload.File, baseURL string) (*domain.Product, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		uc.log.Warnf("Use Case: Attempted gallery update with malformed product ID '%s'", id)
		return nil, fmt.Errorf("%w: malformed id '%s'", domain.ErrInvalidID, id)
	}

	urls, err := uc.ingestor.IngestGallery(ctx, files, baseURL)
	if err != nil {
		return nil, err
	}

	updated, err := uc.productRepo.UpdateGallery(ctx, id, urls)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to update gallery for product ID %s: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Gallery updated for product ID %s (%d images)", id, len(urls))
	return updated, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if err := uc.productRepo.DeleteByID(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %s: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product deleted with ID %s", id)
	return nil
}

func (uc *productUseCase) CountProducts(ctx context.Context) (int64, error) {
	count, err := uc.productRepo.Count(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to count products: %v", err)
		return 0, fmt.Errorf("could not count products: %w", err)
	}
	return count, nil
}

func (uc *productUseCase) FeaturedProducts(ctx context.Context, limit int64) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 1
	}
	products, err := uc.productRepo.FindFeatured(ctx, limit)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list featured products: %v", err)
		return nil, fmt.Errorf("could not retrieve featured products: %w", err)
	}
	return products, nil
}
