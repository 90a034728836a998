package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/sahyog/app/models"
)

// FundraiserFilter narrows a fundraiser listing. The zero value lists every
// public fundraiser.
type FundraiserFilter struct {
	Category   models.Category
	CreatedBy  *primitive.ObjectID
	PublicOnly bool
}

// FundraiserRepository handles the fundraisers collection.
type FundraiserRepository struct {
	col *mongo.Collection
}

func NewFundraiserRepository(db *mongo.Database) *FundraiserRepository {
	return &FundraiserRepository{col: db.Collection("fundraisers")}
}

func (r *FundraiserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "is_public", Value: 1}, {Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("fundraisers: create indexes: %w", err)
	}
	return nil
}

// Create persists a new fundraiser.
func (r *FundraiserRepository) Create(ctx context.Context, f *models.Fundraiser) error {
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, f)
	if err != nil {
		return fmt.Errorf("fundraisers: insert: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		f.ID = oid
	}
	return nil
}

// FindByID fetches a fundraiser regardless of its visibility flag: a private
// fundraiser is reachable by direct id even though listings exclude it.
func (r *FundraiserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Fundraiser, error) {
	var f models.Fundraiser
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Fundraiser{}, ErrNotFound
	}
	if err != nil {
		return models.Fundraiser{}, fmt.Errorf("fundraisers: find by id: %w", err)
	}
	return f, nil
}

// List returns fundraisers newest-first with the total matching count.
func (r *FundraiserRepository) List(ctx context.Context, filter FundraiserFilter, page, limit int) ([]models.Fundraiser, int64, error) {
	query := bson.M{}
	if filter.PublicOnly {
		query["is_public"] = true
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.CreatedBy != nil {
		query["created_by"] = *filter.CreatedBy
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("fundraisers: count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("fundraisers: find: %w", err)
	}
	defer cur.Close(ctx)

	fundraisers := []models.Fundraiser{}
	if err := cur.All(ctx, &fundraisers); err != nil {
		return nil, 0, fmt.Errorf("fundraisers: decode: %w", err)
	}
	return fundraisers, total, nil
}

// IDsOwnedBy returns the ids of every fundraiser created by owner. Used to
// scope an organization's donation listing.
func (r *FundraiserRepository) IDsOwnedBy(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.col.Find(ctx, bson.M{"created_by": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("fundraisers: ids owned by: %w", err)
	}
	defer cur.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("fundraisers: decode ids: %w", err)
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// Delete removes a fundraiser. Its donations are retained as an audit trail;
// there is no cascade.
func (r *FundraiserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("fundraisers: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
