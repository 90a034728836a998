package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sahyog/app/controllers"
	"github.com/shashiranjanraj/sahyog/app/routes"
	"github.com/shashiranjanraj/sahyog/app/services"
	"github.com/shashiranjanraj/sahyog/internal/storetest"
	"github.com/shashiranjanraj/sahyog/pkg/router"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type api struct {
	handler http.Handler
}

func newAPI() *api {
	users := storetest.NewUsers()
	fundraisers := storetest.NewFundraisers()
	donations := storetest.NewDonations()

	authSvc := services.NewAuthService(users)
	googleSvc := services.NewGoogleService(users)
	fundraiserSvc := services.NewFundraiserService(fundraisers, donations, nil)
	donationSvc := services.NewDonationService(donations, fundraisers, nil, false)

	r := router.New()
	routes.Register(r, routes.Controllers{
		Auth:       controllers.NewAuthController(authSvc, googleSvc, nil),
		Fundraiser: controllers.NewFundraiserController(fundraiserSvc),
		Donation:   controllers.NewDonationController(donationSvc),
	}, nil)

	return &api{handler: r.Handler()}
}

func (a *api) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env),
			"body: %s", rec.Body.String())
	}
	return rec, env
}

func (a *api) registerAndLogin(t *testing.T, name, email, role string) string {
	t.Helper()

	rec, _ := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "secret123", "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestDonationLifecycle(t *testing.T) {
	a := newAPI()
	orgToken := a.registerAndLogin(t, "Seva Trust", "org@example.com", "organization")

	// Publish a fundraiser.
	rec, env := a.do(t, http.MethodPost, "/api/fundraisers", orgToken, map[string]any{
		"title":       "Flood Relief",
		"description": "Emergency relief for flood-affected families.",
		"upi_id":      "relief@upi",
		"category":    "NGO",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var fundraiser struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fundraiser))

	// Anonymous donor reports a payment.
	rec, env = a.do(t, http.MethodPost, "/api/donations", "", map[string]any{
		"fundraiser_id":  fundraiser.ID,
		"donor_name":     "Ravi",
		"amount":         400,
		"transaction_id": "UPI-REF-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var donation struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &donation))
	assert.Equal(t, "pending", donation.Status)

	// Pending donations do not count toward the public total.
	rec, env = a.do(t, http.MethodGet, fmt.Sprintf("/api/fundraisers/%s/stats", fundraiser.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalRaised   float64 `json:"total_raised"`
		DonationCount int     `json:"donation_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Zero(t, stats.TotalRaised)

	// The organization approves; the total moves.
	rec, _ = a.do(t, http.MethodPatch, "/api/donations/"+donation.ID, orgToken, map[string]any{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = a.do(t, http.MethodGet, fmt.Sprintf("/api/fundraisers/%s/stats", fundraiser.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 400, stats.TotalRaised)
	assert.Equal(t, 1, stats.DonationCount)

	// A second decision on the same donation is refused.
	rec, env = a.do(t, http.MethodPatch, "/api/donations/"+donation.ID, orgToken, map[string]any{
		"status": "rejected",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDonationValidation(t *testing.T) {
	a := newAPI()
	orgToken := a.registerAndLogin(t, "Seva Trust", "org@example.com", "organization")

	rec, env := a.do(t, http.MethodPost, "/api/fundraisers", orgToken, map[string]any{
		"title":       "Flood Relief",
		"description": "Emergency relief for flood-affected families.",
		"upi_id":      "relief@upi",
		"category":    "NGO",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var fundraiser struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fundraiser))

	// Zero amounts are rejected with a field-level error.
	rec, env = a.do(t, http.MethodPost, "/api/donations", "", map[string]any{
		"fundraiser_id":  fundraiser.ID,
		"donor_name":     "Ravi",
		"amount":         0,
		"transaction_id": "UPI-REF-1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "amount")

	// Donations against unknown fundraisers 404 rather than validate.
	rec, _ = a.do(t, http.MethodPost, "/api/donations", "", map[string]any{
		"fundraiser_id":  "657000000000000000000000",
		"donor_name":     "Ravi",
		"amount":         50,
		"transaction_id": "UPI-REF-2",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoleGates(t *testing.T) {
	a := newAPI()
	donorToken := a.registerAndLogin(t, "Asha", "asha@example.com", "donor")

	// Donors cannot publish fundraisers.
	rec, _ := a.do(t, http.MethodPost, "/api/fundraisers", donorToken, map[string]any{
		"title":       "Not Allowed",
		"description": "Donors cannot create fundraisers.",
		"upi_id":      "x@upi",
		"category":    "NGO",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Anonymous callers cannot list donations.
	rec, _ = a.do(t, http.MethodGet, "/api/donations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown roles are rejected at registration.
	rec, env := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "X", "email": "x@example.com", "password": "secret123", "role": "admin",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "role")
}

func TestPrivateFundraiserHiddenFromListing(t *testing.T) {
	a := newAPI()
	orgToken := a.registerAndLogin(t, "Seva Trust", "org@example.com", "organization")

	rec, env := a.do(t, http.MethodPost, "/api/fundraisers", orgToken, map[string]any{
		"title":       "Quiet Drive",
		"description": "Shared by direct link only, not listed.",
		"upi_id":      "quiet@upi",
		"category":    "Institute",
		"is_public":   false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var fundraiser struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fundraiser))

	rec, env = a.do(t, http.MethodGet, "/api/fundraisers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Zero(t, page.Pagination.Total)

	// Direct fetch still works for anyone holding the link.
	rec, _ = a.do(t, http.MethodGet, "/api/fundraisers/"+fundraiser.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShareRedirect(t *testing.T) {
	a := newAPI()
	orgToken := a.registerAndLogin(t, "Seva Trust", "org@example.com", "organization")

	rec, env := a.do(t, http.MethodPost, "/api/fundraisers", orgToken, map[string]any{
		"title":       "Flood Relief",
		"description": "Emergency relief for flood-affected families.",
		"upi_id":      "relief@upi",
		"category":    "NGO",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var fundraiser struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fundraiser))

	req := httptest.NewRequest(http.MethodGet, "/fundraisers/"+fundraiser.ID+"/share", nil)
	rec2 := httptest.NewRecorder()
	a.handler.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusFound, rec2.Code)
	assert.Equal(t, "/fundraisers/"+fundraiser.ID, rec2.Header().Get("Location"))

	// Unknown ids fall back to the listing instead of a dead link.
	req = httptest.NewRequest(http.MethodGet, "/fundraisers/657000000000000000000000/share", nil)
	rec2 = httptest.NewRecorder()
	a.handler.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusFound, rec2.Code)
	assert.Equal(t, "/fundraisers", rec2.Header().Get("Location"))
}

func TestProfileRoundTrip(t *testing.T) {
	a := newAPI()
	token := a.registerAndLogin(t, "Asha", "asha@example.com", "donor")

	rec, env := a.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Asha", profile.Name)

	rec, env = a.do(t, http.MethodPatch, "/api/profile", token, map[string]any{
		"name": "Asha D",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Asha D", profile.Name)

	// Unauthenticated profile reads are refused.
	rec, _ = a.do(t, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
