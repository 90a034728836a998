package routes

import (
	"net/http"

	"github.com/shashiranjanraj/sahyog/app/authz"
	"github.com/shashiranjanraj/sahyog/app/controllers"
	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/pkg/cache"
	"github.com/shashiranjanraj/sahyog/pkg/ctx"
	"github.com/shashiranjanraj/sahyog/pkg/middleware"
	"github.com/shashiranjanraj/sahyog/pkg/response"
	"github.com/shashiranjanraj/sahyog/pkg/router"
)

// Controllers bundles the handler set for registration.
type Controllers struct {
	Auth       *controllers.AuthController
	Fundraiser *controllers.FundraiserController
	Donation   *controllers.DonationController
}

// Register mounts all routes. Route names follow the dotted convention used
// by route:list output.
func Register(r *router.Router, c Controllers, blacklist *cache.Cache) {
	authRequired := middleware.Auth(blacklist)
	authOptional := middleware.OptionalAuth(blacklist)
	orgOnly := authz.HasRole(models.RoleOrganization)

	r.Get("/healthz", "healthz", func(w http.ResponseWriter, req *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	// Share links are public, browser-facing redirects outside /api.
	r.Get("/fundraisers/{id}/share", "fundraisers.share", ctx.Wrap(c.Fundraiser.Share))

	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", ctx.Wrap(c.Auth.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(c.Auth.Login))
	api.Post("/auth/logout", "auth.logout", ctx.Wrap(c.Auth.Logout), authRequired)
	api.Get("/auth/google", "auth.google", ctx.Wrap(c.Auth.GoogleRedirect))
	api.Get("/auth/google/callback", "auth.google.callback", ctx.Wrap(c.Auth.GoogleCallback))

	api.Get("/profile", "profile.show", ctx.Wrap(c.Auth.Profile), authRequired)
	api.Patch("/profile", "profile.update", ctx.Wrap(c.Auth.UpdateProfile), authRequired)

	api.Get("/fundraisers", "fundraisers.index", ctx.Wrap(c.Fundraiser.List))
	api.Get("/fundraisers/{id}", "fundraisers.show", ctx.Wrap(c.Fundraiser.Show))
	api.Get("/fundraisers/{id}/stats", "fundraisers.stats", ctx.Wrap(c.Fundraiser.Stats))
	api.Post("/fundraisers", "fundraisers.store", ctx.Wrap(c.Fundraiser.Create), authRequired, orgOnly)
	api.Delete("/fundraisers/{id}", "fundraisers.destroy", ctx.Wrap(c.Fundraiser.Delete), authRequired, orgOnly)

	// Submission is open to anonymous donors; a token, when present, links
	// the donation to the caller's account.
	api.Post("/donations", "donations.store", ctx.Wrap(c.Donation.Submit), authOptional)
	api.Get("/donations", "donations.index", ctx.Wrap(c.Donation.List), authRequired)
	api.Get("/donations/{id}", "donations.show", ctx.Wrap(c.Donation.Show), authRequired)
	api.Patch("/donations/{id}", "donations.update", ctx.Wrap(c.Donation.SetStatus), authRequired, orgOnly)
}
