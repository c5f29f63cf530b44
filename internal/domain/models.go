package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	RichDescription string             `bson:"richDescription" json:"richDescription"`
	Image           string             `bson:"image" json:"image"`
	Images          []string           `bson:"images" json:"images"`
	Brand           string             `bson:"brand" json:"brand"`
	Price           float64            `bson:"price" json:"price"`
	CategoryID      primitive.ObjectID `bson:"category" json:"category"`
	Category        *Category          `bson:"-" json:"categoryDetail,omitempty"` // expanded on list, never persisted
	CountInStock    int                `bson:"countInStock" json:"countInStock"`
	Rating          float64            `bson:"rating" json:"rating"`
	NumReviews      int                `bson:"numReviews" json:"numReviews"`
	IsFeatured      bool               `bson:"isFeatured" json:"isFeatured"`
	DateCreated     time.Time          `bson:"dateCreated" json:"dateCreated"`
}

// ProductSummary is the reduced-payload listing shape: name and image only,
// identity omitted.
type ProductSummary struct {
	Name  string `bson:"name" json:"name"`
	Image string `bson:"image" json:"image"`
}

type Category struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Icon  string             `bson:"icon" json:"icon"`
	Color string             `bson:"color" json:"color"`
}

// ProductFilter restricts a product listing. An empty Categories set matches
// all products.
type ProductFilter struct {
	Categories []string
}
