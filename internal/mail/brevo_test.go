package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pass-accompagnement/backend/internal/conseiller/domain"
)

func TestEnvoyerEmailArchivage(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotKey = r.URL.Path, r.Header.Get("api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewBrevoClient("key", srv.URL, 42)
	if err := c.EnvoyerEmailArchivage(context.Background(), "j@ex.fr", "Ali", "Ben"); err != nil {
		t.Fatalf("EnvoyerEmailArchivage: %v", err)
	}
	if gotPath != "/smtp/email" || gotKey != "key" {
		t.Errorf("request: %s key=%q", gotPath, gotKey)
	}
	if gotBody["templateId"].(float64) != 42 {
		t.Errorf("templateId: %v", gotBody["templateId"])
	}
}

func TestEnvoyerEmailArchivage_SansEmail(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewBrevoClient("key", srv.URL, 42)
	if err := c.EnvoyerEmailArchivage(context.Background(), "", "Ali", "Ben"); err != nil {
		t.Fatalf("EnvoyerEmailArchivage: %v", err)
	}
	if called {
		t.Error("jeune without email must be skipped")
	}
}

func TestReplaceMailingList(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewBrevoClient("key", srv.URL, 0)
	contacts := []domain.Contact{{Prenom: "Nils", Nom: "Tavernier", Email: "nils@ft.fr"}}
	if err := c.ReplaceMailingList(context.Background(), 7, contacts); err != nil {
		t.Fatalf("ReplaceMailingList: %v", err)
	}
	lists := gotBody["listIds"].([]interface{})
	if len(lists) != 1 || lists[0].(float64) != 7 {
		t.Errorf("listIds: %v", lists)
	}
	if gotBody["updateExistingContacts"] != true {
		t.Error("updateExistingContacts should be set")
	}
}

func TestReplaceMailingList_ListeNonConfiguree(t *testing.T) {
	c := NewBrevoClient("key", "http://unused", 0)
	if err := c.ReplaceMailingList(context.Background(), 0, nil); err == nil {
		t.Error("list id 0 should return an error")
	}
}

func TestPost_ErreurServeur(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewBrevoClient("key", srv.URL, 42)
	if err := c.EnvoyerEmailArchivage(context.Background(), "j@ex.fr", "Ali", "Ben"); err == nil {
		t.Error("4xx should return an error")
	}
}
