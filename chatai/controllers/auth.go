package controllers

import (
	"context"
	"strings"
	"time"

	"chatai/chatai/apperrors"
	"chatai/chatai/auth"
	"chatai/chatai/config"
	"chatai/chatai/sources/psql/models"
	"chatai/chatai/types"
)

// UserStore is the slice of the user DAO the auth flow needs.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
}

type AuthController struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthController(users UserStore, cfg config.Config) *AuthController {
	return &AuthController{
		users:    users,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: cfg.TokenTTL,
	}
}

// Register validates the request, hashes the password and persists the
// user. The response carries public fields only.
func (c *AuthController) Register(ctx context.Context, req types.RegisterRequest) (*types.PublicUser, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, apperrors.New(apperrors.Validation, "username, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.New(apperrors.Validation, "invalid email address")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	// Email uniqueness rides on the store's unique index; a duplicate
	// comes back from CreateUser as a conflict even under races.
	user, err := c.users.CreateUser(ctx, username, email, hash)
	if err != nil {
		return nil, err
	}
	return publicUser(user), nil
}

// Login verifies credentials and mints a session token. Unknown email
// and wrong password return the same error.
func (c *AuthController) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.New(apperrors.Validation, "email and password are required")
	}

	user, err := c.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.New(apperrors.Auth, "invalid credentials")
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, c.secret, c.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{Token: token, User: *publicUser(user)}, nil
}

func publicUser(user *models.User) *types.PublicUser {
	return &types.PublicUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}
