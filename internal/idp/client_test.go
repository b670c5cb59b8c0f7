package idp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeleteUtilisateur(t *testing.T) {
	var gotMethod, gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotKey = r.Method, r.URL.Path, r.Header.Get("X-API-KEY")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	if err := c.DeleteUtilisateur(context.Background(), "auth-1"); err != nil {
		t.Fatalf("DeleteUtilisateur: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/admin/users/auth-1" || gotKey != "secret" {
		t.Errorf("request: %s %s key=%q", gotMethod, gotPath, gotKey)
	}
}

func TestDeleteUtilisateur_NotFoundIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	if err := c.DeleteUtilisateur(context.Background(), "deja-parti"); err != nil {
		t.Errorf("404 should be treated as success, got %v", err)
	}
}

func TestDeleteUtilisateur_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	if err := c.DeleteUtilisateur(context.Background(), "auth-1"); err == nil {
		t.Error("500 should return an error")
	}
}

func TestDeleteUtilisateur_EmptyIDIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	if err := c.DeleteUtilisateur(context.Background(), ""); err != nil {
		t.Fatalf("DeleteUtilisateur: %v", err)
	}
	if called {
		t.Error("empty id must not hit the provider")
	}
}
