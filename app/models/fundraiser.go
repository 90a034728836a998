package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the closed set of fundraiser categories.
type Category string

const (
	CategoryNGO       Category = "NGO"
	CategoryReligious Category = "Religious"
	CategoryInstitute Category = "Institute"
)

// Fundraiser is a published campaign accepting donations toward an optional
// target. CreatedBy is immutable after creation and always references an
// organization account.
type Fundraiser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	TargetAmount   *float64           `bson:"target_amount,omitempty" json:"target_amount,omitempty"`
	UPIID          string             `bson:"upi_id" json:"upi_id"`
	QRCodeImage    string             `bson:"qr_code_image,omitempty" json:"qr_code_image,omitempty"`
	Category       Category           `bson:"category" json:"category"`
	ThumbnailImage string             `bson:"thumbnail_image,omitempty" json:"thumbnail_image,omitempty"`
	BannerImage    string             `bson:"banner_image,omitempty" json:"banner_image,omitempty"`
	IsPublic       bool               `bson:"is_public" json:"is_public"`
	CreatedBy      primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// OwnedBy reports whether the fundraiser belongs to the given user id.
func (f Fundraiser) OwnedBy(userID primitive.ObjectID) bool {
	return f.CreatedBy == userID
}
