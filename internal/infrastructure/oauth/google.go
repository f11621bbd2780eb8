// Package oauth implements the external OAuth provider contract against
// Google's endpoints.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/kvision/portal-api/internal/core/ports"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type GoogleProvider struct {
	conf *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *GoogleProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

// Exchange trades the authorization code for a token and fetches the
// subject's identity from the userinfo endpoint.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*ports.OAuthIdentity, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}

	resp, err := p.conf.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo fetch: unexpected status %d", resp.StatusCode)
	}

	var info struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("userinfo decode: %w", err)
	}

	return &ports.OAuthIdentity{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Avatar:  info.Picture,
	}, nil
}
