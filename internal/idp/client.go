// Package idp talks to the external identity provider's admin API.
package idp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client deletes accounts on the identity provider when a jeune is archived.
type Client struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client
}

// NewClient returns a client for the identity provider admin API.
func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIToken:   apiToken,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// DeleteUtilisateur removes the account identified by idAuthentification.
// A 404 from the provider is treated as success: the account is already gone.
func (c *Client) DeleteUtilisateur(ctx context.Context, idAuthentification string) error {
	if c.BaseURL == "" {
		return fmt.Errorf("idp: base URL not configured")
	}
	if idAuthentification == "" {
		return nil
	}
	url := fmt.Sprintf("%s/admin/users/%s", c.BaseURL, idAuthentification)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-KEY", c.APIToken)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("idp: delete failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
