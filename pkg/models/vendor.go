package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VendorProfile holds store metadata for a user with the vendor role.
// The profile's user_id is the only link between the two; products and
// orders reference the vendor by user id, never by profile id.
type VendorProfile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           string             `bson:"user_id" json:"user_id"`
	StoreName        string             `bson:"store_name" json:"store_name"`
	StoreDescription string             `bson:"store_description,omitempty" json:"store_description,omitempty"`
	StoreImage       string             `bson:"store_image,omitempty" json:"store_image,omitempty"`
	Address          string             `bson:"address" json:"address"`
	Latitude         float64            `bson:"latitude" json:"latitude"`
	Longitude        float64            `bson:"longitude" json:"longitude"`
	Phone            string             `bson:"phone" json:"phone"`
	WorkingHours     string             `bson:"working_hours,omitempty" json:"working_hours,omitempty"`
	DeliveryOptions  []string           `bson:"delivery_options" json:"delivery_options"`
	TaxNumber        string             `bson:"tax_number,omitempty" json:"tax_number,omitempty"`
	IsApproved       bool               `bson:"is_approved" json:"is_approved"`
	Rating           float64            `bson:"rating" json:"rating"`
	TotalOrders      int                `bson:"total_orders" json:"total_orders"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`

	// Distance in kilometers, populated only by nearby lookups.
	Distance float64 `bson:"-" json:"distance,omitempty"`
}
