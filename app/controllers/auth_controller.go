package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/sahyog/app/authz"
	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/app/services"
	"github.com/shashiranjanraj/sahyog/pkg/cache"
	"github.com/shashiranjanraj/sahyog/pkg/ctx"
	"github.com/shashiranjanraj/sahyog/pkg/middleware"
	"github.com/shashiranjanraj/sahyog/pkg/reqid"
)

// AuthController handles registration, login, logout, Google login, and the
// caller's own profile.
type AuthController struct {
	auth      *services.AuthService
	google    *services.GoogleService
	blacklist *cache.Cache
}

func NewAuthController(auth *services.AuthService, google *services.GoogleService, blacklist *cache.Cache) *AuthController {
	return &AuthController{auth: auth, google: google, blacklist: blacklist}
}

type registerInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,in=organization,donor"`
}

func (ac *AuthController) Register(c *ctx.Context) {
	var in registerInput
	if !c.BindJSON(&in) {
		return
	}

	role, _ := models.ParseRole(in.Role) // validated by the in= rule
	user, err := ac.auth.Register(c.Context(), in.Name, in.Email, in.Password, role)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Created(user.Summary())
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ac *AuthController) Login(c *ctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}

	token, user, err := ac.auth.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Success(map[string]any{
		"token": token,
		"user":  user.Summary(),
	})
}

// Logout blacklists the presented token until it would have expired.
func (ac *AuthController) Logout(c *ctx.Context) {
	claims, ok := middleware.ClaimsFromCtx(c.Context())
	if !ok {
		c.Unauthorized()
		return
	}

	if err := middleware.RevokeToken(c.Context(), ac.blacklist, claims); err != nil {
		respondErr(c, err)
		return
	}
	c.Success(map[string]any{"logged_out": true})
}

const oauthStateTTL = 10 * time.Minute

// GoogleRedirect sends the caller to the Google consent page.
func (ac *AuthController) GoogleRedirect(c *ctx.Context) {
	if !ac.google.Enabled() {
		c.Error(http.StatusServiceUnavailable, "Google login is not configured")
		return
	}

	state := reqid.New()
	if ac.blacklist != nil {
		if err := ac.blacklist.Set(c.Context(), "oauth:state:"+state, true, oauthStateTTL); err != nil {
			respondErr(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, ac.google.AuthURL(state))
}

// GoogleCallback exchanges the authorization code and issues a JWT. First
// logins auto-provision a donor account without a password.
func (ac *AuthController) GoogleCallback(c *ctx.Context) {
	if !ac.google.Enabled() {
		c.Error(http.StatusServiceUnavailable, "Google login is not configured")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Error(http.StatusBadRequest, "Missing authorization code")
		return
	}

	state := c.Query("state")
	if ac.blacklist != nil {
		key := "oauth:state:" + state
		if state == "" || !ac.blacklist.Exists(c.Context(), key) {
			c.Unauthorized("Invalid OAuth state")
			return
		}
		_ = ac.blacklist.Del(c.Context(), key) // single use
	}

	token, user, err := ac.google.Login(c.Context(), code)
	if err != nil {
		c.Unauthorized("Google login failed")
		return
	}

	c.Success(map[string]any{
		"token": token,
		"user":  user.Summary(),
	})
}

func (ac *AuthController) Profile(c *ctx.Context) {
	actor := authz.ActorFromRequest(c.R)
	if actor == nil {
		c.Unauthorized()
		return
	}

	user, err := ac.auth.Profile(c.Context(), actor.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(user.Summary())
}

type updateProfileInput struct {
	Name  string  `json:"name" validate:"required,min=2,max=100"`
	Image *string `json:"image" validate:"nullable,url"`
}

func (ac *AuthController) UpdateProfile(c *ctx.Context) {
	actor := authz.ActorFromRequest(c.R)
	if actor == nil {
		c.Unauthorized()
		return
	}

	var in updateProfileInput
	if !c.BindJSON(&in) {
		return
	}

	image := ""
	if in.Image != nil {
		image = *in.Image
	}

	user, err := ac.auth.UpdateProfile(c.Context(), actor.ID, in.Name, image)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(user.Summary())
}
