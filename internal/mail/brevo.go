// Package mail talks to the Brevo transactional-mail and contacts API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pass-accompagnement/backend/internal/conseiller/domain"
)

const defaultTimeout = 15 * time.Second

// BrevoClient sends transactional emails and maintains the per-structure
// conseiller mailing lists.
type BrevoClient struct {
	APIKey            string
	BaseURL           string
	ArchiveTemplateID int64
	HTTPClient        *http.Client
}

// NewBrevoClient returns a client for the Brevo API.
func NewBrevoClient(apiKey, baseURL string, archiveTemplateID int64) *BrevoClient {
	if baseURL == "" {
		baseURL = "https://api.brevo.com/v3"
	}
	return &BrevoClient{
		APIKey:            apiKey,
		BaseURL:           baseURL,
		ArchiveTemplateID: archiveTemplateID,
		HTTPClient:        &http.Client{Timeout: defaultTimeout},
	}
}

// EnvoyerEmailArchivage sends the archival notification to the jeune.
// Jeunes without an email address are skipped silently.
func (c *BrevoClient) EnvoyerEmailArchivage(ctx context.Context, email, prenom, nom string) error {
	if email == "" {
		return nil
	}
	body := map[string]interface{}{
		"templateId": c.ArchiveTemplateID,
		"to":         []map[string]string{{"email": email, "name": prenom + " " + nom}},
		"params":     map[string]string{"prenom": prenom, "nom": nom},
	}
	return c.post(ctx, "/smtp/email", body)
}

// ReplaceMailingList replaces the contacts of the list: the previous import is
// overwritten by the new one (updateExistingContacts).
func (c *BrevoClient) ReplaceMailingList(ctx context.Context, listID int64, contacts []domain.Contact) error {
	if listID == 0 {
		return fmt.Errorf("mail: mailing list not configured")
	}
	jsonBody := make([]map[string]interface{}, len(contacts))
	for i, contact := range contacts {
		jsonBody[i] = map[string]interface{}{
			"email":      contact.Email,
			"attributes": map[string]string{"PRENOM": contact.Prenom, "NOM": contact.Nom},
		}
	}
	body := map[string]interface{}{
		"listIds":                []int64{listID},
		"updateExistingContacts": true,
		"jsonBody":               jsonBody,
	}
	return c.post(ctx, "/contacts/import", body)
}

func (c *BrevoClient) post(ctx context.Context, path string, body interface{}) error {
	if c.APIKey == "" {
		return fmt.Errorf("mail: API key not configured")
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.APIKey)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail: request %s failed status=%d body=%s", path, resp.StatusCode, string(b))
	}
	return nil
}
