// Package notification sends push notifications through the mobile gateway.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Notification is one push message addressed to a device token.
type Notification struct {
	Token string `json:"to"`
	Titre string `json:"title"`
	Corps string `json:"body"`
}

// PushClient sends notifications to the push gateway.
type PushClient struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client
}

// NewPushClient returns a client for the push gateway.
func NewPushClient(baseURL, apiToken string) *PushClient {
	return &PushClient{
		BaseURL:    baseURL,
		APIToken:   apiToken,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Send delivers one notification.
func (c *PushClient) Send(ctx context.Context, n Notification) error {
	if c.BaseURL == "" {
		return fmt.Errorf("notification: gateway URL not configured")
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/send", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIToken)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notification: send failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
