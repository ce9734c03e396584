package repository

import (
	"context"
	"time"

	"github.com/example/marketplace/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListByVendor(ctx context.Context, vendorID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	ListByStatus(ctx context.Context, status string) ([]models.Order, error)
}

type mongoOrders struct {
	db *Mongo
}

func NewOrderRepository(db *Mongo) OrderRepository {
	return &mongoOrders{db: db}
}

func (r *mongoOrders) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	res, err := r.db.collection("orders").InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var order models.Order
	err = r.db.collection("orders").FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *mongoOrders) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.collection("orders").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *mongoOrders) ListByVendor(ctx context.Context, vendorID string) ([]models.Order, error) {
	return r.list(ctx, bson.M{"vendor_id": vendorID})
}

func (r *mongoOrders) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoOrders) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	return r.list(ctx, bson.M{"status": status})
}

func (r *mongoOrders) UpdateStatus(ctx context.Context, id, status string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.collection("orders").UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoOrders) Count(ctx context.Context) (int64, error) {
	return r.db.collection("orders").CountDocuments(ctx, bson.M{})
}

func (r *mongoOrders) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.db.collection("orders").CountDocuments(ctx, bson.M{"status": status})
}
