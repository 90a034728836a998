package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/sahyog/app/authz"
	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/app/repositories"
	"github.com/shashiranjanraj/sahyog/app/services"
	"github.com/shashiranjanraj/sahyog/internal/storetest"
)

type fundraiserFixture struct {
	fundraisers   *storetest.Fundraisers
	donations     *storetest.Donations
	fundraiserSvc *services.FundraiserService
	donationSvc   *services.DonationService

	org   authz.Actor
	donor authz.Actor
}

func newFundraiserFixture(t *testing.T) *fundraiserFixture {
	t.Helper()

	fx := &fundraiserFixture{
		fundraisers: storetest.NewFundraisers(),
		donations:   storetest.NewDonations(),
		org:         authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleOrganization},
		donor:       authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleDonor},
	}
	fx.fundraiserSvc = services.NewFundraiserService(fx.fundraisers, fx.donations, nil)
	fx.donationSvc = services.NewDonationService(fx.donations, fx.fundraisers, nil, false)
	return fx
}

func (fx *fundraiserFixture) create(t *testing.T, in services.CreateFundraiserInput) models.Fundraiser {
	t.Helper()
	f, err := fx.fundraiserSvc.Create(context.Background(), fx.org, in)
	require.NoError(t, err)
	return f
}

func TestCreateRequiresOrganization(t *testing.T) {
	fx := newFundraiserFixture(t)

	_, err := fx.fundraiserSvc.Create(context.Background(), fx.donor, services.CreateFundraiserInput{
		Title: "x", UPIID: "x@upi", Category: models.CategoryNGO, IsPublic: true,
	})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestListShowsOnlyPublic(t *testing.T) {
	fx := newFundraiserFixture(t)
	pub := fx.create(t, services.CreateFundraiserInput{
		Title: "Public Drive", UPIID: "a@upi", Category: models.CategoryNGO, IsPublic: true,
	})
	priv := fx.create(t, services.CreateFundraiserInput{
		Title: "Private Drive", UPIID: "b@upi", Category: models.CategoryNGO, IsPublic: false,
	})

	items, total, err := fx.fundraiserSvc.List(context.Background(), "", nil, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, pub.ID, items[0].ID)

	// Direct fetch by id still reaches the private fundraiser.
	got, err := fx.fundraiserSvc.Get(context.Background(), priv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private Drive", got.Title)
}

func TestListFiltersByCategory(t *testing.T) {
	fx := newFundraiserFixture(t)
	fx.create(t, services.CreateFundraiserInput{
		Title: "NGO Drive", UPIID: "a@upi", Category: models.CategoryNGO, IsPublic: true,
	})
	fx.create(t, services.CreateFundraiserInput{
		Title: "Temple Drive", UPIID: "b@upi", Category: models.CategoryReligious, IsPublic: true,
	})

	items, total, err := fx.fundraiserSvc.List(context.Background(), models.CategoryReligious, nil, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Temple Drive", items[0].Title)
}

func TestDeleteOwnershipAndRetainedDonations(t *testing.T) {
	fx := newFundraiserFixture(t)
	f := fx.create(t, services.CreateFundraiserInput{
		Title: "Drive", UPIID: "a@upi", Category: models.CategoryNGO, IsPublic: true,
	})

	d, err := fx.donationSvc.Submit(context.Background(), nil, services.SubmitDonationInput{
		FundraiserID: f.ID, DonorName: "Ravi", Amount: 100, TransactionID: "T1",
	})
	require.NoError(t, err)

	otherOrg := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleOrganization}
	assert.ErrorIs(t, fx.fundraiserSvc.Delete(context.Background(), otherOrg, f.ID), services.ErrForbidden)

	require.NoError(t, fx.fundraiserSvc.Delete(context.Background(), fx.org, f.ID))
	_, err = fx.fundraiserSvc.Get(context.Background(), f.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Donations against the deleted fundraiser remain as an audit trail.
	got, err := fx.donations.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.FundraiserID)
}

func TestStatsCountsOnlyApproved(t *testing.T) {
	fx := newFundraiserFixture(t)
	target := 1000.0
	f := fx.create(t, services.CreateFundraiserInput{
		Title: "Drive", TargetAmount: &target, UPIID: "a@upi",
		Category: models.CategoryNGO, IsPublic: true,
	})

	submit := func(amount float64) models.Donation {
		d, err := fx.donationSvc.Submit(context.Background(), nil, services.SubmitDonationInput{
			FundraiserID: f.ID, DonorName: "Ravi", Amount: amount, TransactionID: "T",
		})
		require.NoError(t, err)
		return d
	}

	first := submit(400)
	second := submit(300)
	third := submit(999)

	_, err := fx.donationSvc.SetStatus(context.Background(), fx.org, first.ID, models.StatusApproved)
	require.NoError(t, err)
	_, err = fx.donationSvc.SetStatus(context.Background(), fx.org, third.ID, models.StatusRejected)
	require.NoError(t, err)

	stats, err := fx.fundraiserSvc.Stats(context.Background(), f.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 400, stats.TotalRaised)
	assert.Equal(t, 1, stats.DonationCount)
	require.NotNil(t, stats.TargetAmount)
	assert.EqualValues(t, 1000, *stats.TargetAmount)

	// Approving the second donation moves the total, with no other caching
	// in between.
	_, err = fx.donationSvc.SetStatus(context.Background(), fx.org, second.ID, models.StatusApproved)
	require.NoError(t, err)

	stats, err = fx.fundraiserSvc.Stats(context.Background(), f.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 700, stats.TotalRaised)
	assert.Equal(t, 2, stats.DonationCount)
}

func TestStatsRedactsDonations(t *testing.T) {
	fx := newFundraiserFixture(t)
	f := fx.create(t, services.CreateFundraiserInput{
		Title: "Drive", UPIID: "a@upi", Category: models.CategoryNGO, IsPublic: true,
	})

	d, err := fx.donationSvc.Submit(context.Background(), &fx.donor, services.SubmitDonationInput{
		FundraiserID: f.ID, DonorName: "Ravi", Amount: 100, TransactionID: "SECRET-TXN",
	})
	require.NoError(t, err)
	_, err = fx.donationSvc.SetStatus(context.Background(), fx.org, d.ID, models.StatusApproved)
	require.NoError(t, err)

	stats, err := fx.fundraiserSvc.Stats(context.Background(), f.ID)
	require.NoError(t, err)
	require.Len(t, stats.RecentDonations, 1)

	// Only name, amount, and time survive redaction; the transaction
	// reference and donor account never appear in the public view.
	got := stats.RecentDonations[0]
	assert.Equal(t, "Ravi", got.DonorName)
	assert.EqualValues(t, 100, got.Amount)
	assert.NotEmpty(t, got.ID)
}

func TestStatsUnknownFundraiser(t *testing.T) {
	fx := newFundraiserFixture(t)

	_, err := fx.fundraiserSvc.Stats(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
