package user

import (
	"context"

	"CSS-Society/site-backend/internal"
)

// Admin is the officer signed in through GitHub.
type Admin struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

func (a Admin) GetLogin() string {
	return a.Login
}

func WithAdmin(ctx context.Context, admin *Admin) context.Context {
	return context.WithValue(ctx, internal.AdminContextKey, admin)
}

func GetFromContext(ctx context.Context) (*Admin, bool) {
	admin, ok := ctx.Value(internal.AdminContextKey).(*Admin)
	return admin, ok
}
