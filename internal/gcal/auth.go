package gcal

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// OAuthScopes: only event creation is needed.
var OAuthScopes = []string{
	calendar.CalendarEventsScope,
}

// loadOAuthConfig loads OAuth2 configuration from the credentials file or
// the GOOGLE_CREDENTIALS_JSON environment variable.
func loadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	// Environment variable first (useful for container deployments).
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS_JSON"); credJSON != "" {
		if config, err := google.ConfigFromJSON([]byte(credJSON), OAuthScopes...); err == nil {
			return config, nil
		}
	}

	if credentialsFile != "" {
		if config, err := loadConfigFromFile(credentialsFile); err == nil {
			return config, nil
		}
	}

	if config, err := loadConfigFromFile("./credentials.json"); err == nil {
		return config, nil
	}

	return nil, fmt.Errorf("no credentials file found - please provide credentials.json or set GOOGLE_CREDENTIALS_JSON env var")
}

func loadConfigFromFile(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return google.ConfigFromJSON(data, OAuthScopes...)
}

// AuthURL returns the OAuth authorization URL.
func (c *Client) AuthURL() string {
	return c.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Authorize runs the manual console authorization flow: print the URL, read
// the code from stdin, exchange and persist the token. No-op when a working
// token already exists.
func (c *Client) Authorize(ctx context.Context) error {
	if c.IsAuthenticated() {
		return nil
	}

	fmt.Printf("Open the following link in your browser and paste the authorization code:\n%v\n> ", c.AuthURL())

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("empty authorization code")
	}

	return c.ExchangeCode(ctx, code)
}
