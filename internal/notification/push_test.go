package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend(t *testing.T) {
	var gotAuth string
	var gotBody Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewPushClient(srv.URL, "tok")
	n := Notification{Token: "device-1", Titre: "Nouveau message", Corps: "Bonjour"}
	if err := c.Send(context.Background(), n); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("authorization: %q", gotAuth)
	}
	if gotBody != n {
		t.Errorf("body: %+v", gotBody)
	}
}

func TestSend_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewPushClient(srv.URL, "tok")
	if err := c.Send(context.Background(), Notification{Token: "t"}); err == nil {
		t.Error("5xx should return an error")
	}
}

func TestSend_SansConfiguration(t *testing.T) {
	c := NewPushClient("", "tok")
	if err := c.Send(context.Background(), Notification{Token: "t"}); err == nil {
		t.Error("missing gateway URL should return an error")
	}
}
