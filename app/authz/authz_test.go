package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/sahyog/app/authz"
	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/pkg/auth"
)

func TestActorFromClaims(t *testing.T) {
	id := primitive.NewObjectID()

	actor, err := authz.ActorFromClaims(&auth.Claims{UserID: id.Hex(), Role: "organization"})
	require.NoError(t, err)
	assert.Equal(t, id, actor.ID)
	assert.Equal(t, models.RoleOrganization, actor.Role)

	_, err = authz.ActorFromClaims(&auth.Claims{UserID: "not-hex", Role: "donor"})
	assert.Error(t, err)

	_, err = authz.ActorFromClaims(&auth.Claims{UserID: id.Hex(), Role: "admin"})
	assert.Error(t, err)
}

func TestFundraiserPredicates(t *testing.T) {
	org := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleOrganization}
	donor := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleDonor}
	owned := models.Fundraiser{CreatedBy: org.ID}
	foreign := models.Fundraiser{CreatedBy: primitive.NewObjectID()}

	assert.True(t, authz.CanCreateFundraiser(org))
	assert.False(t, authz.CanCreateFundraiser(donor))

	assert.True(t, authz.CanDeleteFundraiser(org, owned))
	assert.False(t, authz.CanDeleteFundraiser(org, foreign))

	assert.True(t, authz.CanTransitionDonation(org, owned))
	assert.False(t, authz.CanTransitionDonation(org, foreign))
	assert.False(t, authz.CanTransitionDonation(donor, models.Fundraiser{CreatedBy: donor.ID}))
}

func TestCanViewDonation(t *testing.T) {
	org := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleOrganization}
	donor := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleDonor}
	f := models.Fundraiser{CreatedBy: org.ID}

	mine := models.Donation{DonorID: &donor.ID, FundraiserID: f.ID}
	anonymous := models.Donation{FundraiserID: f.ID}

	assert.True(t, authz.CanViewDonation(donor, mine, f))
	assert.False(t, authz.CanViewDonation(donor, anonymous, f))

	assert.True(t, authz.CanViewDonation(org, anonymous, f))
	assert.False(t, authz.CanViewDonation(
		authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleOrganization}, anonymous, f))
}
