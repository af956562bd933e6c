package strava

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Token is the payload returned by the OAuth refresh exchange.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

func (t *Token) Expiry() time.Time {
	return time.Unix(t.ExpiresAt, 0)
}

// Refresh exchanges a refresh token for a new access token. The caller is
// responsible for persisting the returned tokens in its environment.
func Refresh(clientID, clientSecret, refreshToken string) (*Token, error) {
	return refresh(http.DefaultClient, defaultBaseURL, clientID, clientSecret, refreshToken)
}

func refresh(client *http.Client, baseURL, clientID, clientSecret, refreshToken string) (*Token, error) {
	form := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}
	resp, err := client.PostForm(baseURL+"/oauth/token", form)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("token refresh status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tok Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}
	return &tok, nil
}
