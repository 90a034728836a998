// Package authz is the single authorization predicate layer. Every role and
// ownership decision in the API goes through these functions; handlers and
// services never re-derive permission logic inline.
package authz

import (
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/pkg/auth"
	"github.com/shashiranjanraj/sahyog/pkg/middleware"
	"github.com/shashiranjanraj/sahyog/pkg/response"
)

// Actor is a resolved caller identity. A nil *Actor means anonymous.
type Actor struct {
	ID   primitive.ObjectID
	Role models.Role
}

// ActorFromClaims converts validated JWT claims into an Actor.
func ActorFromClaims(claims *auth.Claims) (Actor, error) {
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Actor{}, fmt.Errorf("authz: bad user id in token: %w", err)
	}
	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return Actor{}, fmt.Errorf("authz: unknown role %q in token", claims.Role)
	}
	return Actor{ID: id, Role: role}, nil
}

// ActorFromRequest resolves the Actor attached by the auth middleware.
// Returns nil when the request is anonymous.
func ActorFromRequest(r *http.Request) *Actor {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		return nil
	}
	actor, err := ActorFromClaims(claims)
	if err != nil {
		return nil
	}
	return &actor
}

// CanCreateFundraiser: only organizations publish campaigns.
func CanCreateFundraiser(actor Actor) bool {
	return actor.Role == models.RoleOrganization
}

// CanDeleteFundraiser: only the owning organization.
func CanDeleteFundraiser(actor Actor, f models.Fundraiser) bool {
	return f.OwnedBy(actor.ID)
}

// CanTransitionDonation: only the organization owning the donation's
// fundraiser may approve or reject it.
func CanTransitionDonation(actor Actor, f models.Fundraiser) bool {
	return actor.Role == models.RoleOrganization && f.OwnedBy(actor.ID)
}

// CanViewDonation gates single-donation reads symmetrically: a donor sees
// only their own donation, an organization only donations against its own
// fundraisers.
func CanViewDonation(actor Actor, d models.Donation, f models.Fundraiser) bool {
	switch actor.Role {
	case models.RoleDonor:
		return d.DonorID != nil && *d.DonorID == actor.ID
	case models.RoleOrganization:
		return f.OwnedBy(actor.ID)
	}
	return false
}

// HasRole returns middleware that allows access only to callers with one of
// the given roles. Requires middleware.Auth to have already run.
func HasRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromRequest(r)
			if actor == nil {
				response.Unauthorized(w)
				return
			}
			if !allowed[actor.Role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
