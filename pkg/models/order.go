package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusPreparing  = "preparing"
	StatusReady      = "ready"
	StatusDelivering = "delivering"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// statusTransitions is the enforced order lifecycle: a forward chain
// ending in completed, with cancellation allowed from any non-terminal
// state. completed and cancelled are terminal.
var statusTransitions = map[string][]string{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusReady, StatusCancelled},
	StatusReady:      {StatusDelivering, StatusCancelled},
	StatusDelivering: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// ValidStatus reports whether s is a member of the order status set.
func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether an order in state from may move to state to.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type OrderItem struct {
	ProductID   string  `bson:"product_id" json:"product_id"`
	ProductName string  `bson:"product_name" json:"product_name"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Price       float64 `bson:"price" json:"price"`
	Total       float64 `bson:"total" json:"total"`
}

type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"user_id" json:"user_id"`
	VendorID          string             `bson:"vendor_id" json:"vendor_id"`
	Items             []OrderItem        `bson:"items" json:"items"`
	Subtotal          float64            `bson:"subtotal" json:"subtotal"`
	DeliveryFee       float64            `bson:"delivery_fee" json:"delivery_fee"`
	Total             float64            `bson:"total" json:"total"`
	DeliveryAddress   string             `bson:"delivery_address" json:"delivery_address"`
	DeliveryLatitude  float64            `bson:"delivery_latitude" json:"delivery_latitude"`
	DeliveryLongitude float64            `bson:"delivery_longitude" json:"delivery_longitude"`
	Phone             string             `bson:"phone" json:"phone"`
	Status            string             `bson:"status" json:"status"`
	DeliveryType      string             `bson:"delivery_type" json:"delivery_type"`
	CourierID         *string            `bson:"courier_id" json:"courier_id"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
