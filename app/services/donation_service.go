package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/sahyog/app/authz"
	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/pkg/event"
	"github.com/shashiranjanraj/sahyog/pkg/metrics"
)

// DonationService implements submission, scoped listing, gated reads, and the
// approval transition.
type DonationService struct {
	donations   DonationStore
	fundraisers FundraiserStore
	bus         *event.Bus

	// overwriteTerminal mirrors APPROVAL_MODE: false refuses transitions on
	// already-decided donations, true re-applies them silently.
	overwriteTerminal bool
}

func NewDonationService(donations DonationStore, fundraisers FundraiserStore, bus *event.Bus, overwriteTerminal bool) *DonationService {
	return &DonationService{
		donations:         donations,
		fundraisers:       fundraisers,
		bus:               bus,
		overwriteTerminal: overwriteTerminal,
	}
}

// SubmitDonationInput is a caller-reported payment claim. DonorName is taken
// as given even for authenticated callers; the platform does not cross-check
// it against the account.
type SubmitDonationInput struct {
	FundraiserID  primitive.ObjectID
	DonorName     string
	Amount        float64
	TransactionID string
}

// Submit records a pending donation. actor is nil for anonymous submissions.
func (s *DonationService) Submit(ctx context.Context, actor *authz.Actor, in SubmitDonationInput) (models.Donation, error) {
	// The fundraiser must exist; nothing else about it is checked. Donations
	// against private fundraisers are allowed by the same asymmetry as
	// direct-id fetch.
	if _, err := s.fundraisers.FindByID(ctx, in.FundraiserID); err != nil {
		return models.Donation{}, err
	}

	d := models.Donation{
		FundraiserID:  in.FundraiserID,
		DonorName:     in.DonorName,
		Amount:        in.Amount,
		TransactionID: in.TransactionID,
		Status:        models.StatusPending,
	}
	if actor != nil {
		id := actor.ID
		d.DonorID = &id
	}

	if err := s.donations.Create(ctx, &d); err != nil {
		return models.Donation{}, err
	}

	metrics.DonationsSubmitted.Inc()
	fire(s.bus, EventDonationSubmitted, d)
	return d, nil
}

// List returns the caller's view of the ledger: a donor sees their own
// donations; an organization sees donations across all of its fundraisers,
// or a single owned fundraiser when one is named.
func (s *DonationService) List(ctx context.Context, actor authz.Actor, fundraiserID *primitive.ObjectID, page, limit int) ([]models.Donation, int64, error) {
	if actor.Role == models.RoleDonor {
		return s.donations.ListByDonor(ctx, actor.ID, page, limit)
	}

	if fundraiserID != nil {
		f, err := s.fundraisers.FindByID(ctx, *fundraiserID)
		if err != nil {
			return nil, 0, err
		}
		if !f.OwnedBy(actor.ID) {
			return nil, 0, ErrForbidden
		}
		return s.donations.ListByFundraisers(ctx, []primitive.ObjectID{f.ID}, page, limit)
	}

	ids, err := s.fundraisers.IDsOwnedBy(ctx, actor.ID)
	if err != nil {
		return nil, 0, err
	}
	return s.donations.ListByFundraisers(ctx, ids, page, limit)
}

// Get fetches one donation, gated by the symmetric read predicate.
func (s *DonationService) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (models.Donation, error) {
	d, err := s.donations.FindByID(ctx, id)
	if err != nil {
		return models.Donation{}, err
	}

	f, err := s.fundraisers.FindByID(ctx, d.FundraiserID)
	if err != nil {
		return models.Donation{}, err
	}

	if !authz.CanViewDonation(actor, d, f) {
		return models.Donation{}, ErrForbidden
	}
	return d, nil
}

// SetStatus applies the approval transition: pending → approved|rejected,
// performed only by the organization owning the referenced fundraiser. The
// status, approver, and timestamp are written in one conditional update.
func (s *DonationService) SetStatus(ctx context.Context, actor authz.Actor, id primitive.ObjectID, status models.DonationStatus) (models.Donation, error) {
	d, err := s.donations.FindByID(ctx, id)
	if err != nil {
		return models.Donation{}, err
	}

	f, err := s.fundraisers.FindByID(ctx, d.FundraiserID)
	if err != nil {
		return models.Donation{}, err
	}

	if !authz.CanTransitionDonation(actor, f) {
		return models.Donation{}, ErrForbidden
	}

	updated, err := s.donations.SetStatus(ctx, id, status, actor.ID, s.overwriteTerminal)
	if err != nil {
		return models.Donation{}, err
	}

	metrics.DonationsTransitioned.WithLabelValues(string(status)).Inc()
	if status == models.StatusApproved {
		metrics.AmountApproved.Add(updated.Amount)
	}
	fire(s.bus, EventDonationDecided, DonationDecided{Donation: updated, Fundraiser: f})
	return updated, nil
}
