package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/modelsnapper/snapper_go_server/config"
)

// ProviderUser is the userinfo payload returned by the hosted identity
// provider after a successful code exchange.
type ProviderUser struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// Client speaks the provider's OAuth2 code flow and userinfo endpoint.
type Client struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewClient(cfg *config.IdentityConfig) *Client {
	return &Client{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
	}
}

// GetAuthURL returns the provider's hosted sign-in URL.
func (c *Client) GetAuthURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a provider token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.config.Exchange(ctx, code)
}

// GetUser fetches the authenticated user's profile from the provider.
func (c *Client) GetUser(ctx context.Context, token *oauth2.Token) (*ProviderUser, error) {
	client := c.config.Client(ctx, token)

	resp, err := client.Get(c.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, string(body))
	}

	var user ProviderUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if user.Subject == "" {
		return nil, fmt.Errorf("userinfo missing subject")
	}

	return &user, nil
}
