package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorID           string             `bson:"vendor_id" json:"vendor_id"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	Category           string             `bson:"category" json:"category"`
	Price              float64            `bson:"price" json:"price"`
	Unit               string             `bson:"unit" json:"unit"`
	Stock              int                `bson:"stock" json:"stock"`
	Images             []string           `bson:"images" json:"images"`
	IsAvailable        bool               `bson:"is_available" json:"is_available"`
	DiscountPercentage float64            `bson:"discount_percentage" json:"discount_percentage"`
	QualityGrade       string             `bson:"quality_grade,omitempty" json:"quality_grade,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProductUpdate carries a merge-patch for a product. Nil fields are
// left untouched by the update.
type ProductUpdate struct {
	Name               *string   `json:"name"`
	Description        *string   `json:"description"`
	Category           *string   `json:"category"`
	Price              *float64  `json:"price"`
	Unit               *string   `json:"unit"`
	Stock              *int      `json:"stock"`
	Images             *[]string `json:"images"`
	IsAvailable        *bool     `json:"is_available"`
	DiscountPercentage *float64  `json:"discount_percentage"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Categories is the fixed catalog taxonomy.
var Categories = []Category{
	{ID: "fruits", Name: "Fruits", Icon: "🍎"},
	{ID: "vegetables", Name: "Vegetables", Icon: "🥕"},
	{ID: "dairy", Name: "Dairy", Icon: "🥛"},
	{ID: "meat", Name: "Meat & Poultry", Icon: "🍗"},
	{ID: "bakery", Name: "Bakery", Icon: "🍞"},
	{ID: "snacks", Name: "Snacks", Icon: "🍿"},
	{ID: "beverages", Name: "Beverages", Icon: "🥤"},
	{ID: "other", Name: "Other", Icon: "📦"},
}
