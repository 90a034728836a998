package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/pkg/auth"
)

// AuthService handles registration, credential login, and profile access.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a credential-backed account. The raw password is hashed
// before it ever reaches the store and is never returned.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role models.Role) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token. Accounts created via
// an identity provider have no password and cannot log in this way.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	if user.Password == "" || !auth.CheckPassword(user.Password, password) {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return "", models.User{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, user, nil
}

// Profile returns the caller's own record.
func (s *AuthService) Profile(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile sets the caller's mutable fields: display name and avatar URL.
// Email and role are not updatable.
func (s *AuthService) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, image string) (models.User, error) {
	return s.users.UpdateProfile(ctx, id, name, image)
}
