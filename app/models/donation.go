package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonationStatus is the three-state donation lifecycle. approved and rejected
// are terminal.
type DonationStatus string

const (
	StatusPending  DonationStatus = "pending"
	StatusApproved DonationStatus = "approved"
	StatusRejected DonationStatus = "rejected"
)

// ParseTerminalStatus accepts only the two statuses a transition may target.
func ParseTerminalStatus(s string) (DonationStatus, bool) {
	switch DonationStatus(s) {
	case StatusApproved, StatusRejected:
		return DonationStatus(s), true
	}
	return "", false
}

// Terminal reports whether the status can no longer change (in strict mode).
func (s DonationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Donation is a caller-reported payment claim against a fundraiser, pending
// manual confirmation by the fundraiser's organization.
//
// DonorID is nil for anonymous donations. DonorName is caller-supplied free
// text and is never cross-checked against DonorID. TransactionID is the
// caller's UPI reference, unverified against any payment rail.
type Donation struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FundraiserID  primitive.ObjectID  `bson:"fundraiser_id" json:"fundraiser_id"`
	DonorID       *primitive.ObjectID `bson:"donor_id,omitempty" json:"donor_id,omitempty"`
	DonorName     string              `bson:"donor_name" json:"donor_name"`
	Amount        float64             `bson:"amount" json:"amount"`
	TransactionID string              `bson:"transaction_id" json:"transaction_id"`
	Status        DonationStatus      `bson:"status" json:"status"`
	ApprovedBy    *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt    *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

// PublicDonation is the redacted shape exposed by the stats view: donor
// identity, transaction reference, and approver are never included.
type PublicDonation struct {
	ID        string    `json:"id"`
	DonorName string    `json:"donor_name"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Public redacts a donation for the stats view.
func (d Donation) Public() PublicDonation {
	return PublicDonation{
		ID:        d.ID.Hex(),
		DonorName: d.DonorName,
		Amount:    d.Amount,
		CreatedAt: d.CreatedAt,
	}
}

// FundraiserStats is the aggregate projection over a fundraiser's approved
// donations. Computed by a full scan per request; cost grows with the number
// of approved donations, there is no cached total.
type FundraiserStats struct {
	FundraiserID    string           `json:"fundraiser_id"`
	Title           string           `json:"title"`
	TargetAmount    *float64         `json:"target_amount"`
	TotalRaised     float64          `json:"total_raised"`
	DonationCount   int              `json:"donation_count"`
	RecentDonations []PublicDonation `json:"recent_donations"`
}
