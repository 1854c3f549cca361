package internal

import (
	"context"
)

type ContextKey string

const AdminContextKey ContextKey = "admin"

type Identity interface {
	GetLogin() string
}

// GetAdminLoginFromContext extracts the authenticated admin login from request context
func GetAdminLoginFromContext(ctx context.Context) (string, bool) {
	adminData := ctx.Value(AdminContextKey)
	if adminData == nil {
		return "", false
	}

	identity, ok := adminData.(Identity)
	if !ok {
		return "", false
	}

	return identity.GetLogin(), true
}
