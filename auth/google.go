package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// Profile is the subset of the Google account profile this backend keeps.
type Profile struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string

	// Endpoint overrides, used by tests.
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// GoogleProvider drives the Google OAuth 2.0 authorization-code flow.
type GoogleProvider struct {
	config GoogleConfig
	client *http.Client
}

func NewGoogleProvider(config GoogleConfig) *GoogleProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultTokenURL
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = defaultUserInfoURL
	}
	return &GoogleProvider{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// LoginURL builds the Google consent page URL for the given state nonce.
func (provider *GoogleProvider) LoginURL(state string) string {
	params := url.Values{
		"client_id":     {provider.config.ClientID},
		"redirect_uri":  {provider.config.CallbackURL},
		"response_type": {"code"},
		"scope":         {"profile email"},
		"state":         {state},
	}
	return provider.config.AuthURL + "?" + params.Encode()
}

// Exchange trades the authorization code for an access token and fetches the
// account profile with it.
func (provider *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	accessToken, err := provider.exchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	info, err := provider.fetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}

	return &Profile{
		GoogleID: info.Sub,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type userInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (provider *GoogleProvider) exchangeCode(ctx context.Context, code string) (string, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {provider.config.ClientID},
		"client_secret": {provider.config.ClientSecret},
		"redirect_uri":  {provider.config.CallbackURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := provider.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}
	return token.AccessToken, nil
}

func (provider *GoogleProvider) fetchUserInfo(ctx context.Context, accessToken string) (*userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.config.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := provider.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("userinfo endpoint returned %d: %s", resp.StatusCode, body)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, errors.New("userinfo response missing sub")
	}
	return &info, nil
}
