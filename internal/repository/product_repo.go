package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog_service/internal/domain"
)

const productCollectionName = "products"

type mongoProductRepository struct {
	collection *mongo.Collection
	log        *logrus.Logger
}

func NewMongoProductRepository(db *mongo.Database, logger *logrus.Logger) domain.ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection(productCollectionName),
		log:        logger,
	}
}

// BuildProductFilter translates a listing filter into its store form:
// category-set membership when categories are named, match-all otherwise.
// Malformed category ids are dropped from the set; they can never match.
func BuildProductFilter(filter domain.ProductFilter) bson.M {
	if len(filter.Categories) == 0 {
		return bson.M{}
	}
	ids := make([]primitive.ObjectID, 0, len(filter.Categories))
	for _, c := range filter.Categories {
		objID, err := primitive.ObjectIDFromHex(c)
		if err != nil {
			continue
		}
		ids = append(ids, objID)
	}
	return bson.M{"category": bson.M{"$in": ids}}
}

func (r *mongoProductRepository) Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	cursor, err := r.collection.Find(ctx, BuildProductFilter(filter))
	if err != nil {
		r.log.Errorf("Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		r.log.Errorf("Failed to decode products: %v", err)
		return nil, fmt.Errorf("could not decode products: %w", err)
	}
	r.log.Infof("Retrieved %d products", len(products))
	return products, nil
}

func (r *mongoProductRepository) FindSelected(ctx context.Context) ([]domain.ProductSummary, error) {
	findOptions := options.Find().SetProjection(bson.M{"name": 1, "image": 1, "_id": 0})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		r.log.Errorf("Failed to list product summaries: %v", err)
		return nil, fmt.Errorf("could not list product summaries: %w", err)
	}
	defer cursor.Close(ctx)

	summaries := []domain.ProductSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		r.log.Errorf("Failed to decode product summaries: %v", err)
		return nil, fmt.Errorf("could not decode product summaries: %w", err)
	}
	return summaries, nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.log.Warnf("Malformed product ID '%s': %v", id, err)
		return nil, fmt.Errorf("%w: malformed id '%s'", domain.ErrInvalidID, id)
	}

	var product domain.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warnf("Product with ID %s not found", id)
			return nil, fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get product by ID %s: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	return &product, nil
}

func (r *mongoProductRepository) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	product.DateCreated = time.Now()
	if product.Images == nil {
		product.Images = []string{}
	}

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		r.log.Errorf("Failed to insert product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	r.log.Infof("Product created successfully with ID %s, Name %s", product.ID.Hex(), product.Name)
	return product, nil
}

func (r *mongoProductRepository) UpdateByID(ctx context.Context, id string, product *domain.Product) (*domain.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.log.Warnf("Malformed product ID '%s' for update: %v", id, err)
		return nil, fmt.Errorf("%w: malformed id '%s'", domain.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"name":            product.Name,
		"description":     product.Description,
		"richDescription": product.RichDescription,
		"image":           product.Image,
		"brand":           product.Brand,
		"price":           product.Price,
		"category":        product.CategoryID,
		"countInStock":    product.CountInStock,
		"rating":          product.Rating,
		"numReviews":      product.NumReviews,
		"isFeatured":      product.IsFeatured,
	}}

	return r.findOneAndUpdate(ctx, objID, update)
}

func (r *mongoProductRepository) UpdateGallery(ctx context.Context, id string, imageURLs []string) (*domain.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.log.Warnf("Malformed product ID '%s' for gallery update: %v", id, err)
		return nil, fmt.Errorf("%w: malformed id '%s'", domain.ErrInvalidID, id)
	}
	if imageURLs == nil {
		imageURLs = []string{}
	}
	return r.findOneAndUpdate(ctx, objID, bson.M{"$set": bson.M{"images": imageURLs}})
}

// findOneAndUpdate applies the update and returns the post-update document.
func (r *mongoProductRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*domain.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warnf("Product with ID %s not found for update", id.Hex())
			return nil, fmt.Errorf("product with id %s: %w", id.Hex(), domain.ErrNotFound)
		}
		r.log.Errorf("Failed to update product ID %s: %v", id.Hex(), err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}
	r.log.Infof("Product updated successfully with ID %s", id.Hex())
	return &updated, nil
}

func (r *mongoProductRepository) DeleteByID(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.log.Warnf("Malformed product ID '%s' for delete: %v", id, err)
		return fmt.Errorf("%w: malformed id '%s'", domain.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		r.log.Errorf("Failed to delete product ID %s: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		r.log.Warnf("Attempted to delete non-existent product ID %s", id)
		return fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Product deleted successfully with ID %s", id)
	return nil
}

func (r *mongoProductRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.log.Errorf("Failed to count products: %v", err)
		return 0, fmt.Errorf("could not count products: %w", err)
	}
	return count, nil
}

func (r *mongoProductRepository) FindFeatured(ctx context.Context, limit int64) ([]domain.Product, error) {
	findOptions := options.Find()
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"isFeatured": true}, findOptions)
	if err != nil {
		r.log.Errorf("Failed to list featured products: %v", err)
		return nil, fmt.Errorf("could not list featured products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		r.log.Errorf("Failed to decode featured products: %v", err)
		return nil, fmt.Errorf("could not decode featured products: %w", err)
	}
	r.log.Infof("Retrieved %d featured products (limit: %d)", len(products), limit)
	return products, nil
}
