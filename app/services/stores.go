package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/app/repositories"
)

// ErrForbidden is returned when an authorization predicate refuses the caller.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidCredentials is returned on a failed login, including logins
// against identity-provider accounts that carry no password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Store interfaces consumed by the services. The Mongo repositories satisfy
// them in production; tests substitute in-memory fakes.

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, image string) (models.User, error)
}

type FundraiserStore interface {
	Create(ctx context.Context, f *models.Fundraiser) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Fundraiser, error)
	List(ctx context.Context, filter repositories.FundraiserFilter, page, limit int) ([]models.Fundraiser, int64, error)
	IDsOwnedBy(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type DonationStore interface {
	Create(ctx context.Context, d *models.Donation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Donation, error)
	ListByDonor(ctx context.Context, donor primitive.ObjectID, page, limit int) ([]models.Donation, int64, error)
	ListByFundraisers(ctx context.Context, ids []primitive.ObjectID, page, limit int) ([]models.Donation, int64, error)
	ApprovedByFundraiser(ctx context.Context, fundraiser primitive.ObjectID) ([]models.Donation, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.DonationStatus, approver primitive.ObjectID, overwrite bool) (models.Donation, error)
}
