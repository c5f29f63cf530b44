package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"catalog_service/internal/domain"
)

const categoryCollectionName = "categories"

type mongoCategoryRepository struct {
	collection *mongo.Collection
	log        *logrus.Logger
}

func NewMongoCategoryRepository(db *mongo.Database, logger *logrus.Logger) domain.CategoryRepository {
	return &mongoCategoryRepository{
		collection: db.Collection(categoryCollectionName),
		log:        logger,
	}
}

func (r *mongoCategoryRepository) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.log.Warnf("Malformed category ID '%s': %v", id, err)
		return nil, fmt.Errorf("%w: malformed id '%s'", domain.ErrInvalidID, id)
	}

	var category domain.Category
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warnf("Category with ID %s not found", id)
			return nil, fmt.Errorf("category with id %s: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get category by ID %s: %v", id, err)
		return nil, fmt.Errorf("could not get category by id: %w", err)
	}
	return &category, nil
}
