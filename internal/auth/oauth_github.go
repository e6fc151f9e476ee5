package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/Le0Vieir4/Weather-io/internal/config"
)

type githubProvider struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewGithubProvider creates the GitHub OAuth adapter.
func NewGithubProvider(cfg config.OAuthProvider) OAuthProvider {
	return &githubProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *githubProvider) Name() string { return "github" }

func (p *githubProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *githubProvider) ResolveProfile(ctx context.Context, code string) (Profile, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("github code exchange: %w", err)
	}

	var u struct {
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Email     string `json:"email"`
	}
	if err := p.get(ctx, tok.AccessToken, "https://api.github.com/user", &u); err != nil {
		return Profile{}, fmt.Errorf("fetch github profile: %w", err)
	}

	email := u.Email
	if email == "" {
		// The public profile email is often unset; the emails endpoint
		// always carries the primary address for the user:email scope.
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := p.get(ctx, tok.AccessToken, "https://api.github.com/user/emails", &emails); err != nil {
			return Profile{}, fmt.Errorf("fetch github emails: %w", err)
		}
		for _, e := range emails {
			if e.Primary {
				email = e.Email
				break
			}
		}
		if email == "" && len(emails) > 0 {
			email = emails[0].Email
		}
	}
	if email == "" {
		return Profile{}, fmt.Errorf("github profile has no email")
	}

	given, family := splitDisplayName(u.Name, u.Login)

	return Profile{
		Email:      email,
		Username:   u.Login,
		Picture:    u.AvatarURL,
		Provider:   p.Name(),
		GivenName:  given,
		FamilyName: family,
	}, nil
}

func (p *githubProvider) get(ctx context.Context, accessToken, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// splitDisplayName derives given/family names from a display name, falling
// back to the account login when the display name is empty.
func splitDisplayName(displayName, fallback string) (string, string) {
	parts := strings.Fields(displayName)
	if len(parts) == 0 {
		return fallback, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
