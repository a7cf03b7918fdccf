package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleClient fetches the userinfo profile with a bearer token.
// Code exchange is handled by the oauth2 configs in the registry.
type GoogleClient struct {
	userInfoURL string
	httpClient  *http.Client
}

func NewGoogleClient() *GoogleClient {
	return &GoogleClient{
		userInfoURL: googleUserInfoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL points the client at a test server.
func (c *GoogleClient) WithBaseURL(base string) *GoogleClient {
	c.userInfoURL = base + "/oauth2/v3/userinfo"
	return c
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// UserInfo fetches the user's profile from Google.
func (c *GoogleClient) UserInfo(ctx context.Context, accessToken string) (auth.ProviderUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return auth.ProviderUserInfo{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auth.ProviderUserInfo{}, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return auth.ProviderUserInfo{}, fmt.Errorf("failed to read userinfo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return auth.ProviderUserInfo{}, fmt.Errorf("userinfo request failed: %s", string(body))
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return auth.ProviderUserInfo{}, fmt.Errorf("failed to parse userinfo: %w", err)
	}
	if info.Sub == "" {
		return auth.ProviderUserInfo{}, errors.New("invalid userinfo: missing sub")
	}

	return auth.ProviderUserInfo{
		Provider:    domain.ProviderGoogle,
		ExternalID:  info.Sub,
		Email:       info.Email,
		Name:        info.Name,
		GivenName:   info.GivenName,
		FamilyName:  info.FamilyName,
		AccessToken: accessToken,
	}, nil
}
