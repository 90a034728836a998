package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/app/repositories"
	"github.com/shashiranjanraj/sahyog/config"
	"github.com/shashiranjanraj/sahyog/pkg/auth"
	httpclient "github.com/shashiranjanraj/sahyog/pkg/http"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleService implements the identity-provider login: the authorization-code
// flow against Google, with first-login auto-provisioning of a donor account
// that carries no password.
type GoogleService struct {
	users UserStore
	cfg   *oauth2.Config
}

func NewGoogleService(users UserStore) *GoogleService {
	return &GoogleService{
		users: users,
		cfg: &oauth2.Config{
			ClientID:     config.GoogleClientID(),
			ClientSecret: config.GoogleClientSecret(),
			RedirectURL:  config.GoogleRedirectURL(),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Enabled reports whether Google login is configured.
func (s *GoogleService) Enabled() bool {
	return s.cfg.ClientID != "" && s.cfg.ClientSecret != ""
}

// AuthURL returns the Google consent page URL for the given CSRF state.
func (s *GoogleService) AuthURL(state string) string {
	return s.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUserinfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Login exchanges the authorization code, fetches the Google profile, upserts
// the matching user, and issues the same JWT credential login produces.
// New accounts default to the donor role; role is fixed at creation, so a
// returning organization keeps its role.
func (s *GoogleService) Login(ctx context.Context, code string) (string, models.User, error) {
	tok, err := s.cfg.Exchange(ctx, code)
	if err != nil {
		return "", models.User{}, fmt.Errorf("google: exchange code: %w", err)
	}

	info, err := s.fetchUserinfo(ctx, tok)
	if err != nil {
		return "", models.User{}, err
	}
	if info.Email == "" {
		return "", models.User{}, fmt.Errorf("google: userinfo has no email")
	}

	user, err := s.users.FindByEmail(ctx, info.Email)
	switch {
	case err == nil:
		// returning user, any role
	case errors.Is(err, repositories.ErrNotFound):
		user = models.User{
			Name:  info.Name,
			Email: info.Email,
			Image: info.Picture,
			Role:  models.RoleDonor,
		}
		if err := s.users.Create(ctx, &user); err != nil {
			return "", models.User{}, err
		}
	default:
		return "", models.User{}, err
	}

	jwt, err := auth.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return "", models.User{}, fmt.Errorf("google: sign token: %w", err)
	}
	return jwt, user, nil
}

func (s *GoogleService) fetchUserinfo(ctx context.Context, tok *oauth2.Token) (googleUserinfo, error) {
	resp, err := httpclient.Get(userinfoURL).
		WithContext(ctx).
		Bearer(tok.AccessToken).
		Timeout(10*time.Second).
		Retry(2, time.Second).
		Send()
	if err != nil {
		return googleUserinfo{}, fmt.Errorf("google: fetch userinfo: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return googleUserinfo{}, fmt.Errorf("google: fetch userinfo: %w", err)
	}

	var info googleUserinfo
	if err := resp.JSON(&info); err != nil {
		return googleUserinfo{}, fmt.Errorf("google: decode userinfo: %w", err)
	}
	return info, nil
}
