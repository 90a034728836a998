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

type fixture struct {
	fundraisers *storetest.Fundraisers
	donations   *storetest.Donations
	donationSvc *services.DonationService

	org        authz.Actor
	donor      authz.Actor
	fundraiser models.Fundraiser
}

func newFixture(t *testing.T, overwrite bool) *fixture {
	t.Helper()

	fx := &fixture{
		fundraisers: storetest.NewFundraisers(),
		donations:   storetest.NewDonations(),
		org:         authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleOrganization},
		donor:       authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleDonor},
	}
	fx.donationSvc = services.NewDonationService(fx.donations, fx.fundraisers, nil, overwrite)

	f := models.Fundraiser{
		Title:     "Flood Relief",
		UPIID:     "relief@upi",
		Category:  models.CategoryNGO,
		IsPublic:  true,
		CreatedBy: fx.org.ID,
	}
	require.NoError(t, fx.fundraisers.Create(context.Background(), &f))
	fx.fundraiser = f
	return fx
}

func (fx *fixture) submit(t *testing.T, actor *authz.Actor, amount float64) models.Donation {
	t.Helper()
	d, err := fx.donationSvc.Submit(context.Background(), actor, services.SubmitDonationInput{
		FundraiserID:  fx.fundraiser.ID,
		DonorName:     "Ravi",
		Amount:        amount,
		TransactionID: "UPI123456",
	})
	require.NoError(t, err)
	return d
}

func TestSubmitAnonymous(t *testing.T) {
	fx := newFixture(t, false)

	d := fx.submit(t, nil, 500)

	assert.Equal(t, models.StatusPending, d.Status)
	assert.Nil(t, d.DonorID)
	assert.Nil(t, d.ApprovedBy)
}

func TestSubmitLinksAuthenticatedDonor(t *testing.T) {
	fx := newFixture(t, false)

	d := fx.submit(t, &fx.donor, 250)

	require.NotNil(t, d.DonorID)
	assert.Equal(t, fx.donor.ID, *d.DonorID)
	assert.Equal(t, models.StatusPending, d.Status)
}

func TestSubmitUnknownFundraiser(t *testing.T) {
	fx := newFixture(t, false)

	_, err := fx.donationSvc.Submit(context.Background(), nil, services.SubmitDonationInput{
		FundraiserID:  primitive.NewObjectID(),
		DonorName:     "Ravi",
		Amount:        100,
		TransactionID: "UPI1",
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSetStatusApproves(t *testing.T) {
	fx := newFixture(t, false)
	d := fx.submit(t, nil, 400)

	updated, err := fx.donationSvc.SetStatus(context.Background(), fx.org, d.ID, models.StatusApproved)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, updated.Status)
	require.NotNil(t, updated.ApprovedBy)
	assert.Equal(t, fx.org.ID, *updated.ApprovedBy)
	assert.NotNil(t, updated.ApprovedAt)
}

func TestSetStatusStrictRefusesSecondDecision(t *testing.T) {
	fx := newFixture(t, false)
	d := fx.submit(t, nil, 400)

	_, err := fx.donationSvc.SetStatus(context.Background(), fx.org, d.ID, models.StatusApproved)
	require.NoError(t, err)

	_, err = fx.donationSvc.SetStatus(context.Background(), fx.org, d.ID, models.StatusRejected)
	assert.ErrorIs(t, err, repositories.ErrAlreadyDecided)

	// The first decision must stand.
	got, err := fx.donationSvc.Get(context.Background(), fx.org, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestSetStatusOverwriteMode(t *testing.T) {
	fx := newFixture(t, true)
	d := fx.submit(t, nil, 400)

	_, err := fx.donationSvc.SetStatus(context.Background(), fx.org, d.ID, models.StatusApproved)
	require.NoError(t, err)

	updated, err := fx.donationSvc.SetStatus(context.Background(), fx.org, d.ID, models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)
}

func TestSetStatusOnlyOwningOrganization(t *testing.T) {
	fx := newFixture(t, false)
	d := fx.submit(t, nil, 400)

	otherOrg := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleOrganization}
	_, err := fx.donationSvc.SetStatus(context.Background(), otherOrg, d.ID, models.StatusApproved)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = fx.donationSvc.SetStatus(context.Background(), fx.donor, d.ID, models.StatusApproved)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestListScopedToDonor(t *testing.T) {
	fx := newFixture(t, false)
	fx.submit(t, &fx.donor, 100)
	fx.submit(t, nil, 200)

	other := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleDonor}
	fx.submit(t, &other, 300)

	items, total, err := fx.donationSvc.List(context.Background(), fx.donor, nil, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.EqualValues(t, 100, items[0].Amount)
}

func TestListScopedToOrganization(t *testing.T) {
	fx := newFixture(t, false)
	fx.submit(t, nil, 100)
	fx.submit(t, nil, 200)

	items, total, err := fx.donationSvc.List(context.Background(), fx.org, nil, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	// Another organization sees nothing, and asking for someone else's
	// fundraiser by id is refused outright.
	otherOrg := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleOrganization}
	items, total, err = fx.donationSvc.List(context.Background(), otherOrg, nil, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, items)

	_, _, err = fx.donationSvc.List(context.Background(), otherOrg, &fx.fundraiser.ID, 1, 20)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestGetGatesReads(t *testing.T) {
	fx := newFixture(t, false)
	mine := fx.submit(t, &fx.donor, 100)
	anon := fx.submit(t, nil, 200)

	// The donor reads their own donation but not the anonymous one.
	_, err := fx.donationSvc.Get(context.Background(), fx.donor, mine.ID)
	assert.NoError(t, err)
	_, err = fx.donationSvc.Get(context.Background(), fx.donor, anon.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// The owning organization reads both; a stranger org neither.
	_, err = fx.donationSvc.Get(context.Background(), fx.org, anon.ID)
	assert.NoError(t, err)

	otherOrg := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleOrganization}
	_, err = fx.donationSvc.Get(context.Background(), otherOrg, mine.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}
