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

// ProductQuery filters the public catalog listing.
type ProductQuery struct {
	Category string
	Search   string
	Skip     int64
	Limit    int64
}

type ProductRepository interface {
	List(ctx context.Context, q ProductQuery) ([]models.Product, error)
	ListByVendor(ctx context.Context, vendorID string) ([]models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, patch models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, id string, quantity int) error
	IncrementStock(ctx context.Context, id string, quantity int) error
	Count(ctx context.Context) (int64, error)
	CountAvailable(ctx context.Context) (int64, error)
}

type mongoProducts struct {
	db *Mongo
}

func NewProductRepository(db *Mongo) ProductRepository {
	return &mongoProducts{db: db}
}

func (r *mongoProducts) List(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	filter := bson.M{"is_available": true}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Search != "" {
		filter["name"] = bson.M{"$regex": q.Search, "$options": "i"}
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}

	opts := options.Find().SetSkip(q.Skip).SetLimit(q.Limit)
	cursor, err := r.db.collection("products").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProducts) ListByVendor(ctx context.Context, vendorID string) ([]models.Product, error) {
	cursor, err := r.db.collection("products").Find(ctx, bson.M{"vendor_id": vendorID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProducts) ListAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.db.collection("products").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProducts) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var product models.Product
	err = r.db.collection("products").FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *mongoProducts) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Images == nil {
		product.Images = []string{}
	}
	res, err := r.db.collection("products").InsertOne(ctx, product)
	if err != nil {
		return err
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Update applies the non-nil fields of patch and refreshes updated_at.
func (r *mongoProducts) Update(ctx context.Context, id string, patch models.ProductUpdate) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Unit != nil {
		set["unit"] = *patch.Unit
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if patch.Images != nil {
		set["images"] = *patch.Images
	}
	if patch.IsAvailable != nil {
		set["is_available"] = *patch.IsAvailable
	}
	if patch.DiscountPercentage != nil {
		set["discount_percentage"] = *patch.DiscountPercentage
	}

	res := r.db.collection("products").FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var product models.Product
	if err := res.Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *mongoProducts) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.collection("products").DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock subtracts quantity from the product's stock only when
// enough stock remains, so stock never goes negative under concurrent
// orders. Returns ErrInsufficientStock when the guard does not match.
func (r *mongoProducts) DecrementStock(ctx context.Context, id string, quantity int) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.collection("products").UpdateOne(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *mongoProducts) IncrementStock(ctx context.Context, id string, quantity int) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = r.db.collection("products").UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"stock": quantity}},
	)
	return err
}

func (r *mongoProducts) Count(ctx context.Context) (int64, error) {
	return r.db.collection("products").CountDocuments(ctx, bson.M{})
}

func (r *mongoProducts) CountAvailable(ctx context.Context) (int64, error) {
	return r.db.collection("products").CountDocuments(ctx, bson.M{"is_available": true})
}
