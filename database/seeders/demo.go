package seeders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/app/repositories"
	"github.com/shashiranjanraj/sahyog/pkg/auth"
	"github.com/shashiranjanraj/sahyog/pkg/collection"
)

func init() {
	Register("demo", SeedDemo)
}

// SeedDemo loads a small demo data set: one organization with two
// fundraisers, one donor account, and a mix of pending and approved
// donations. Safe to re-run; existing demo users and fundraisers (matched
// by title) are left in place rather than duplicated.
func SeedDemo(ctx context.Context, db *mongo.Database) error {
	users := repositories.NewUserRepository(db)
	fundraisers := repositories.NewFundraiserRepository(db)
	donations := repositories.NewDonationRepository(db)

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	org := &models.User{
		Name:     "Seva Trust",
		Email:    "org@example.com",
		Password: hash,
		Role:     models.RoleOrganization,
	}
	if err := users.Create(ctx, org); err != nil {
		if !errors.Is(err, repositories.ErrDuplicate) {
			return err
		}
		existing, err := users.FindByEmail(ctx, org.Email)
		if err != nil {
			return err
		}
		*org = existing
	}

	donor := &models.User{
		Name:     "Asha Donor",
		Email:    "donor@example.com",
		Password: hash,
		Role:     models.RoleDonor,
	}
	if err := users.Create(ctx, donor); err != nil && !errors.Is(err, repositories.ErrDuplicate) {
		return err
	}

	target := 50000.0
	seeds := []models.Fundraiser{
		{
			Title:        "School Library Fund",
			Description:  "Books and shelving for the community school library.",
			TargetAmount: &target,
			UPIID:        "sevatrust@upi",
			Category:     models.CategoryInstitute,
			IsPublic:     true,
			CreatedBy:    org.ID,
		},
		{
			Title:       "Temple Kitchen Renovation",
			Description: "Rebuilding the kitchen that serves free meals daily.",
			UPIID:       "sevatrust@upi",
			Category:    models.CategoryReligious,
			IsPublic:    true,
			CreatedBy:   org.ID,
		},
	}

	existing, _, err := fundraisers.List(ctx, repositories.FundraiserFilter{CreatedBy: &org.ID}, 1, 100)
	if err != nil {
		return err
	}
	byTitle := collection.KeyBy(existing, func(f models.Fundraiser) string { return f.Title })

	for i := range seeds {
		if _, ok := byTitle[seeds[i].Title]; ok {
			continue
		}
		if err := fundraisers.Create(ctx, &seeds[i]); err != nil {
			return err
		}
		for j, amount := range []float64{500, 1100, 251} {
			d := &models.Donation{
				FundraiserID:  seeds[i].ID,
				DonorName:     fmt.Sprintf("Donor %d", j+1),
				Amount:        amount,
				TransactionID: uuid.NewString(),
				Status:        models.StatusPending,
			}
			if err := donations.Create(ctx, d); err != nil {
				return err
			}
			// Approve the first donation of each fundraiser so the stats
			// view has something to show out of the box.
			if j == 0 {
				if _, err := donations.SetStatus(ctx, d.ID, models.StatusApproved, org.ID, false); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
