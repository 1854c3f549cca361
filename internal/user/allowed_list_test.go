package user

import (
	"context"
	"testing"

	"CSS-Society/site-backend/internal"

	"github.com/stretchr/testify/require"
)

func TestAllowedList_IsAllowed(t *testing.T) {
	t.Parallel()

	list := NewAllowedList([]string{"Octocat", "president@css.example.org, treasurer@css.example.org", " "})
	require.Equal(t, 3, list.Len())

	type testCase struct {
		name     string
		admin    Admin
		expected bool
	}

	testCases := []testCase{
		{name: "Should match a login ignoring case", admin: Admin{Login: "octocat"}, expected: true},
		{name: "Should match an email when the login is unknown", admin: Admin{Login: "someone", Email: "Treasurer@css.example.org"}, expected: true},
		{name: "Should reject an account not on the list", admin: Admin{Login: "someone", Email: "someone@example.com"}},
		{name: "Should reject an empty identity", admin: Admin{}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, list.IsAllowed(tc.admin))
		})
	}
}

func TestGetFromContext(t *testing.T) {
	t.Parallel()

	_, ok := GetFromContext(context.Background())
	require.False(t, ok)

	ctx := WithAdmin(context.Background(), &Admin{Login: "octocat"})
	admin, ok := GetFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "octocat", admin.Login)

	login, ok := internal.GetAdminLoginFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "octocat", login)
}
