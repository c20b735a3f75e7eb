package controllers

import (
	"context"

	"chatai/chatai/apperrors"
	"chatai/chatai/types"
)

type UserController struct {
	users UserStore
}

func NewUserController(users UserStore) *UserController {
	return &UserController{users: users}
}

// GetProfile resolves the authenticated user's public profile.
func (c *UserController) GetProfile(ctx context.Context, id int) (*types.PublicUser, error) {
	user, err := c.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Token subject no longer exists; treated as a stale session.
		return nil, apperrors.New(apperrors.Auth, "unknown user")
	}
	return publicUser(user), nil
}
