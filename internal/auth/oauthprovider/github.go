package oauthprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"CSS-Society/site-backend/internal/user"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const DefaultGitHubAPIURL = "https://api.github.com"

type GitHubConfig struct {
	config *oauth2.Config
	apiURL string
}

func NewGitHubConfig(clientID, clientSecret, redirectURL string) *GitHubConfig {
	return &GitHubConfig{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"user:email",
				"read:user",
			},
			Endpoint: githuboauth.Endpoint,
		},
		apiURL: DefaultGitHubAPIURL,
	}
}

// WithAPIURL points user lookups at another GitHub API host, e.g. GitHub Enterprise.
func (g *GitHubConfig) WithAPIURL(apiURL string) *GitHubConfig {
	g.apiURL = apiURL
	return g
}

func (g *GitHubConfig) Name() string {
	return "github"
}

func (g *GitHubConfig) Config() *oauth2.Config {
	return g.config
}

func (g *GitHubConfig) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.config.Exchange(ctx, code)
}

// GitHubUserInfo represents the response from GitHub's user API
type GitHubUserInfo struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// GitHubEmail represents the response from GitHub's emails API
type GitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHubConfig) getJSON(client *http.Client, path string, target any) error {
	resp, err := client.Get(g.apiURL + path)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, target)
}

// GetUserInfo fetches the GitHub account and, when the profile hides it, the
// primary verified email.
func (g *GitHubConfig) GetUserInfo(ctx context.Context, token *oauth2.Token) (user.Admin, error) {
	client := g.config.Client(ctx, token)

	var githubUser GitHubUserInfo
	err := g.getJSON(client, "/user", &githubUser)
	if err != nil {
		return user.Admin{}, fmt.Errorf("failed to get GitHub user info: %w", err)
	}

	email := githubUser.Email
	if email == "" {
		var emails []GitHubEmail
		err = g.getJSON(client, "/user/emails", &emails)
		if err != nil {
			return user.Admin{}, fmt.Errorf("failed to get GitHub user emails: %w", err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}

	return user.Admin{
		Login:     githubUser.Login,
		Name:      githubUser.Name,
		Email:     email,
		AvatarURL: githubUser.AvatarURL,
	}, nil
}
