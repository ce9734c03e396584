package repository

import (
	"context"
	"time"

	"github.com/example/marketplace/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CartRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	SaveItems(ctx context.Context, userID string, items []models.CartItem, total float64) error
	Clear(ctx context.Context, userID string) error
}

type mongoCarts struct {
	db *Mongo
}

func NewCartRepository(db *Mongo) CartRepository {
	return &mongoCarts{db: db}
}

func (r *mongoCarts) FindByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.collection("carts").FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func (r *mongoCarts) Create(ctx context.Context, cart *models.Cart) error {
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	cart.UpdatedAt = time.Now().UTC()
	res, err := r.db.collection("carts").InsertOne(ctx, cart)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoCarts) SaveItems(ctx context.Context, userID string, items []models.CartItem, total float64) error {
	if items == nil {
		items = []models.CartItem{}
	}
	_, err := r.db.collection("carts").UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": items, "total": total, "updated_at": time.Now().UTC()}},
	)
	return err
}

// Clear empties the cart without deleting the document; clearing a cart
// that does not exist is a no-op.
func (r *mongoCarts) Clear(ctx context.Context, userID string) error {
	return r.SaveItems(ctx, userID, []models.CartItem{}, 0)
}
