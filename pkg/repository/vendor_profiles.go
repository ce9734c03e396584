package repository

import (
	"context"
	"time"

	"github.com/example/marketplace/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type VendorProfileRepository interface {
	Create(ctx context.Context, profile *models.VendorProfile) error
	FindByUser(ctx context.Context, userID string) (*models.VendorProfile, error)
	FindByID(ctx context.Context, id string) (*models.VendorProfile, error)
	ListApproved(ctx context.Context) ([]models.VendorProfile, error)
}

type mongoVendorProfiles struct {
	db *Mongo
}

func NewVendorProfileRepository(db *Mongo) VendorProfileRepository {
	return &mongoVendorProfiles{db: db}
}

func (r *mongoVendorProfiles) Create(ctx context.Context, profile *models.VendorProfile) error {
	existing := r.db.collection("vendor_profiles").FindOne(ctx, bson.M{"user_id": profile.UserID})
	if existing.Err() == nil {
		return ErrDuplicate
	}
	if existing.Err() != mongo.ErrNoDocuments {
		return existing.Err()
	}

	profile.CreatedAt = time.Now().UTC()
	if profile.DeliveryOptions == nil {
		profile.DeliveryOptions = []string{"self", "platform"}
	}
	res, err := r.db.collection("vendor_profiles").InsertOne(ctx, profile)
	if err != nil {
		return err
	}
	profile.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoVendorProfiles) FindByUser(ctx context.Context, userID string) (*models.VendorProfile, error) {
	var profile models.VendorProfile
	err := r.db.collection("vendor_profiles").FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *mongoVendorProfiles) FindByID(ctx context.Context, id string) (*models.VendorProfile, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var profile models.VendorProfile
	err = r.db.collection("vendor_profiles").FindOne(ctx, bson.M{"_id": oid}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *mongoVendorProfiles) ListApproved(ctx context.Context) ([]models.VendorProfile, error) {
	cursor, err := r.db.collection("vendor_profiles").Find(ctx, bson.M{"is_approved": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.VendorProfile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
