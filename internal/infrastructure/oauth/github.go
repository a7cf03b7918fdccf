package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

const githubAPIBaseURL = "https://api.github.com"

// GitHubClient fetches the user profile and, when the profile hides the
// email, the authenticated email list.
type GitHubClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewGitHubClient() *GitHubClient {
	return &GitHubClient{
		baseURL: githubAPIBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL points the client at a test server.
func (c *GitHubClient) WithBaseURL(base string) *GitHubClient {
	c.baseURL = base
	return c
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GitHubEmail is one entry of the /user/emails listing.
type GitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// UserInfo fetches the authenticated user's profile. The email field
// is often empty when the user hides it; the resolver falls back to
// Emails in that case.
func (c *GitHubClient) UserInfo(ctx context.Context, accessToken string) (auth.ProviderUserInfo, error) {
	body, err := c.get(ctx, "/user", accessToken)
	if err != nil {
		return auth.ProviderUserInfo{}, err
	}

	var u githubUser
	if err := json.Unmarshal(body, &u); err != nil {
		return auth.ProviderUserInfo{}, fmt.Errorf("failed to parse user: %w", err)
	}
	if u.ID == 0 {
		return auth.ProviderUserInfo{}, errors.New("invalid user: missing id")
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}
	return auth.ProviderUserInfo{
		Provider:    domain.ProviderGitHub,
		ExternalID:  strconv.FormatInt(u.ID, 10),
		Email:       u.Email,
		Name:        name,
		AccessToken: accessToken,
	}, nil
}

// Emails lists the authenticated user's addresses. Requires the
// user:email scope.
func (c *GitHubClient) Emails(ctx context.Context, accessToken string) ([]GitHubEmail, error) {
	body, err := c.get(ctx, "/user/emails", accessToken)
	if err != nil {
		return nil, err
	}

	var out []GitHubEmail
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse emails: %w", err)
	}
	return out, nil
}

func (c *GitHubClient) get(ctx context.Context, path, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github request failed: %s", string(body))
	}
	return body, nil
}
