// Package storetest provides in-memory store fakes mirroring the Mongo
// repositories' observable behavior, including their sentinel errors and
// newest-first ordering. Used by service and route tests.
package storetest

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/app/repositories"
)

type Users struct {
	byID map[primitive.ObjectID]models.User
}

func NewUsers() *Users {
	return &Users{byID: make(map[primitive.ObjectID]models.User)}
}

func (f *Users) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (f *Users) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (f *Users) Create(_ context.Context, user *models.User) error {
	for _, u := range f.byID {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byID[user.ID] = *user
	return nil
}

func (f *Users) UpdateProfile(_ context.Context, id primitive.ObjectID, name, image string) (models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	u.Name = name
	if image != "" {
		u.Image = image
	}
	u.UpdatedAt = time.Now()
	f.byID[id] = u
	return u, nil
}

type Fundraisers struct {
	items []models.Fundraiser
}

func NewFundraisers() *Fundraisers { return &Fundraisers{} }

func (f *Fundraisers) Create(_ context.Context, fr *models.Fundraiser) error {
	fr.ID = primitive.NewObjectID()
	fr.CreatedAt = time.Now()
	fr.UpdatedAt = fr.CreatedAt
	f.items = append(f.items, *fr)
	return nil
}

func (f *Fundraisers) FindByID(_ context.Context, id primitive.ObjectID) (models.Fundraiser, error) {
	for _, fr := range f.items {
		if fr.ID == id {
			return fr, nil
		}
	}
	return models.Fundraiser{}, repositories.ErrNotFound
}

func (f *Fundraisers) List(_ context.Context, filter repositories.FundraiserFilter, page, limit int) ([]models.Fundraiser, int64, error) {
	var matched []models.Fundraiser
	for _, fr := range f.items {
		if filter.PublicOnly && !fr.IsPublic {
			continue
		}
		if filter.Category != "" && fr.Category != filter.Category {
			continue
		}
		if filter.CreatedBy != nil && fr.CreatedBy != *filter.CreatedBy {
			continue
		}
		matched = append(matched, fr)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (f *Fundraisers) IDsOwnedBy(_ context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, fr := range f.items {
		if fr.CreatedBy == owner {
			ids = append(ids, fr.ID)
		}
	}
	return ids, nil
}

func (f *Fundraisers) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, fr := range f.items {
		if fr.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type Donations struct {
	items []models.Donation
}

func NewDonations() *Donations { return &Donations{} }

func (f *Donations) Create(_ context.Context, d *models.Donation) error {
	d.ID = primitive.NewObjectID()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	f.items = append(f.items, *d)
	return nil
}

func (f *Donations) FindByID(_ context.Context, id primitive.ObjectID) (models.Donation, error) {
	for _, d := range f.items {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Donation{}, repositories.ErrNotFound
}

func (f *Donations) ListByDonor(_ context.Context, donor primitive.ObjectID, page, limit int) ([]models.Donation, int64, error) {
	var matched []models.Donation
	for _, d := range f.items {
		if d.DonorID != nil && *d.DonorID == donor {
			matched = append(matched, d)
		}
	}
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (f *Donations) ListByFundraisers(_ context.Context, ids []primitive.ObjectID, page, limit int) ([]models.Donation, int64, error) {
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var matched []models.Donation
	for _, d := range f.items {
		if want[d.FundraiserID] {
			matched = append(matched, d)
		}
	}
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (f *Donations) ApprovedByFundraiser(_ context.Context, fundraiser primitive.ObjectID) ([]models.Donation, error) {
	var matched []models.Donation
	for _, d := range f.items {
		if d.FundraiserID == fundraiser && d.Status == models.StatusApproved {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func (f *Donations) SetStatus(_ context.Context, id primitive.ObjectID, status models.DonationStatus, approver primitive.ObjectID, overwrite bool) (models.Donation, error) {
	for i, d := range f.items {
		if d.ID != id {
			continue
		}
		if d.Status.Terminal() && !overwrite {
			return models.Donation{}, repositories.ErrAlreadyDecided
		}
		now := time.Now()
		d.Status = status
		d.ApprovedBy = &approver
		d.ApprovedAt = &now
		d.UpdatedAt = now
		f.items[i] = d
		return d, nil
	}
	return models.Donation{}, repositories.ErrNotFound
}

func paginate[T any](s []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(s) {
		return nil
	}
	end := start + limit
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}
