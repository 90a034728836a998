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

// DonationRepository handles the donations collection.
type DonationRepository struct {
	col *mongo.Collection
}

func NewDonationRepository(db *mongo.Database) *DonationRepository {
	return &DonationRepository{col: db.Collection("donations")}
}

func (r *DonationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "fundraiser_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "donor_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("donations: create indexes: %w", err)
	}
	return nil
}

// Create persists a new donation; callers always submit it as pending.
func (r *DonationRepository) Create(ctx context.Context, d *models.Donation) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("donations: insert: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return nil
}

// FindByID fetches a single donation.
func (r *DonationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Donation, error) {
	var d models.Donation
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Donation{}, ErrNotFound
	}
	if err != nil {
		return models.Donation{}, fmt.Errorf("donations: find by id: %w", err)
	}
	return d, nil
}

// ListByDonor returns a donor's own donations, newest-first.
func (r *DonationRepository) ListByDonor(ctx context.Context, donor primitive.ObjectID, page, limit int) ([]models.Donation, int64, error) {
	return r.list(ctx, bson.M{"donor_id": donor}, page, limit)
}

// ListByFundraisers returns donations across the given fundraisers,
// newest-first. Used for an organization's approval queue.
func (r *DonationRepository) ListByFundraisers(ctx context.Context, ids []primitive.ObjectID, page, limit int) ([]models.Donation, int64, error) {
	if len(ids) == 0 {
		return []models.Donation{}, 0, nil
	}
	return r.list(ctx, bson.M{"fundraiser_id": bson.M{"$in": ids}}, page, limit)
}

func (r *DonationRepository) list(ctx context.Context, query bson.M, page, limit int) ([]models.Donation, int64, error) {
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("donations: count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("donations: find: %w", err)
	}
	defer cur.Close(ctx)

	donations := []models.Donation{}
	if err := cur.All(ctx, &donations); err != nil {
		return nil, 0, fmt.Errorf("donations: decode: %w", err)
	}
	return donations, total, nil
}

// ApprovedByFundraiser returns every approved donation for a fundraiser,
// newest-first. This is the stats scan: O(approved donations), by contract.
func (r *DonationRepository) ApprovedByFundraiser(ctx context.Context, fundraiser primitive.ObjectID) ([]models.Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{
		"fundraiser_id": fundraiser,
		"status":        models.StatusApproved,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("donations: approved scan: %w", err)
	}
	defer cur.Close(ctx)

	donations := []models.Donation{}
	if err := cur.All(ctx, &donations); err != nil {
		return nil, fmt.Errorf("donations: decode approved: %w", err)
	}
	return donations, nil
}

// SetStatus applies the approval transition in a single conditional update,
// so double-submitted clicks can never interleave a read-then-write.
//
// When overwrite is false (strict mode) the filter requires the donation to
// still be pending; a terminal donation yields ErrAlreadyDecided. When
// overwrite is true the fields are re-applied regardless, reproducing the
// legacy behavior.
func (r *DonationRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.DonationStatus, approver primitive.ObjectID, overwrite bool) (models.Donation, error) {
	filter := bson.M{"_id": id}
	if !overwrite {
		filter["status"] = models.StatusPending
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"status":      status,
		"approved_by": approver,
		"approved_at": now,
		"updated_at":  now,
	}}

	var d models.Donation
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish "gone" from "already decided".
		if _, findErr := r.FindByID(ctx, id); findErr == nil {
			return models.Donation{}, ErrAlreadyDecided
		}
		return models.Donation{}, ErrNotFound
	}
	if err != nil {
		return models.Donation{}, fmt.Errorf("donations: set status: %w", err)
	}
	return d, nil
}
