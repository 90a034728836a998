package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account roles. It is fixed at creation and never
// changes through any exposed operation.
type Role string

const (
	RoleOrganization Role = "organization"
	RoleDonor        Role = "donor"
)

// ParseRole maps a wire string onto the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOrganization, RoleDonor:
		return Role(s), true
	}
	return "", false
}

// User is an account holder. Password is empty for accounts created through
// an identity provider (Google login).
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"` // bcrypt hash, never serialised
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Role      Role               `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserSummary is the credential-free shape returned by auth and profile
// endpoints.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
	Role  Role   `json:"role"`
}

// Summary strips the credential hash and internal fields.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Image: u.Image,
		Role:  u.Role,
	}
}
