package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/sahyog/app/authz"
	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/app/repositories"
	"github.com/shashiranjanraj/sahyog/pkg/collection"
	"github.com/shashiranjanraj/sahyog/pkg/event"
	"github.com/shashiranjanraj/sahyog/pkg/metrics"
)

// FundraiserService implements campaign publication, listing, deletion, and
// the aggregate stats view.
type FundraiserService struct {
	fundraisers FundraiserStore
	donations   DonationStore
	bus         *event.Bus
}

func NewFundraiserService(fundraisers FundraiserStore, donations DonationStore, bus *event.Bus) *FundraiserService {
	return &FundraiserService{fundraisers: fundraisers, donations: donations, bus: bus}
}

// CreateFundraiserInput carries the caller-suppliable fields. The owner is
// always taken from the authenticated caller, never from the payload.
type CreateFundraiserInput struct {
	Title          string
	Description    string
	TargetAmount   *float64
	UPIID          string
	QRCodeImage    string
	Category       models.Category
	ThumbnailImage string
	BannerImage    string
	IsPublic       bool
}

// Create publishes a fundraiser owned by the acting organization.
func (s *FundraiserService) Create(ctx context.Context, actor authz.Actor, in CreateFundraiserInput) (models.Fundraiser, error) {
	if !authz.CanCreateFundraiser(actor) {
		return models.Fundraiser{}, ErrForbidden
	}

	f := models.Fundraiser{
		Title:          in.Title,
		Description:    in.Description,
		TargetAmount:   in.TargetAmount,
		UPIID:          in.UPIID,
		QRCodeImage:    in.QRCodeImage,
		Category:       in.Category,
		ThumbnailImage: in.ThumbnailImage,
		BannerImage:    in.BannerImage,
		IsPublic:       in.IsPublic,
		CreatedBy:      actor.ID,
	}
	if err := s.fundraisers.Create(ctx, &f); err != nil {
		return models.Fundraiser{}, err
	}

	metrics.FundraisersCreated.Inc()
	fire(s.bus, EventFundraiserCreated, f)
	return f, nil
}

// List returns public fundraisers newest-first, optionally filtered by
// category and owner.
func (s *FundraiserService) List(ctx context.Context, category models.Category, createdBy *primitive.ObjectID, page, limit int) ([]models.Fundraiser, int64, error) {
	filter := repositories.FundraiserFilter{
		Category:   category,
		CreatedBy:  createdBy,
		PublicOnly: true,
	}
	return s.fundraisers.List(ctx, filter, page, limit)
}

// Get fetches a fundraiser by id. Private fundraisers are intentionally
// reachable here even though listings hide them.
func (s *FundraiserService) Get(ctx context.Context, id primitive.ObjectID) (models.Fundraiser, error) {
	return s.fundraisers.FindByID(ctx, id)
}

// Delete removes the caller's own fundraiser. Donations against it are kept.
func (s *FundraiserService) Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	f, err := s.fundraisers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanDeleteFundraiser(actor, f) {
		return ErrForbidden
	}
	return s.fundraisers.Delete(ctx, id)
}

// Stats recomputes the approved-donation aggregate on every call: total
// raised, count, and the redacted recent-donor list.
func (s *FundraiserService) Stats(ctx context.Context, id primitive.ObjectID) (models.FundraiserStats, error) {
	f, err := s.fundraisers.FindByID(ctx, id)
	if err != nil {
		return models.FundraiserStats{}, err
	}

	approved, err := s.donations.ApprovedByFundraiser(ctx, id)
	if err != nil {
		return models.FundraiserStats{}, err
	}

	return models.FundraiserStats{
		FundraiserID: f.ID.Hex(),
		Title:        f.Title,
		TargetAmount: f.TargetAmount,
		TotalRaised: collection.Sum(approved, func(d models.Donation) float64 {
			return d.Amount
		}),
		DonationCount:   len(approved),
		RecentDonations: collection.Map(approved, models.Donation.Public),
	}, nil
}
