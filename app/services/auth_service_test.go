package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/app/repositories"
	"github.com/shashiranjanraj/sahyog/app/services"
	"github.com/shashiranjanraj/sahyog/internal/storetest"
	"github.com/shashiranjanraj/sahyog/pkg/auth"
)

func TestRegisterHashesPassword(t *testing.T) {
	users := storetest.NewUsers()
	svc := services.NewAuthService(users)

	u, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret123", models.RoleDonor)
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, auth.CheckPassword(u.Password, "secret123"))
	assert.Equal(t, models.RoleDonor, u.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := storetest.NewUsers()
	svc := services.NewAuthService(users)

	_, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret123", models.RoleDonor)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other", "asha@example.com", "secret456", models.RoleOrganization)
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestLogin(t *testing.T) {
	users := storetest.NewUsers()
	svc := services.NewAuthService(users)

	registered, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret123", models.RoleOrganization)
	require.NoError(t, err)

	token, u, err := svc.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	assert.Equal(t, string(models.RoleOrganization), claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := storetest.NewUsers()
	svc := services.NewAuthService(users)

	_, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret123", models.RoleDonor)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "asha@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestLoginRejectsProviderAccounts(t *testing.T) {
	users := storetest.NewUsers()
	svc := services.NewAuthService(users)

	// Accounts provisioned through an identity provider carry no password
	// hash and must not be reachable via credential login.
	provider := &models.User{Name: "G User", Email: "g@example.com", Role: models.RoleDonor}
	require.NoError(t, users.Create(context.Background(), provider))

	_, _, err := svc.Login(context.Background(), "g@example.com", "")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
