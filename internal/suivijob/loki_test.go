package suivijob

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestPushRapportJSON(t *testing.T) {
	var got lokiPushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/push" {
			t.Errorf("path: %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	fin := time.Date(2025, 11, 20, 9, 30, 0, 0, time.UTC)
	rapport := Rapport{JobType: "MAJ_MAILING_LISTS", Succes: true, DateDebut: fin.Add(-time.Minute), DateFin: fin}
	raw, _ := json.Marshal(rapport)
	if err := PushRapportJSON(context.Background(), srv.URL, raw); err != nil {
		t.Fatalf("PushRapportJSON: %v", err)
	}
	if len(got.Streams) != 1 {
		t.Fatalf("streams: %d", len(got.Streams))
	}
	s := got.Streams[0]
	if s.Stream["job"] != "suivi-jobs" || s.Stream["job_type"] != "MAJ_MAILING_LISTS" || s.Stream["succes"] != "true" {
		t.Errorf("labels: %v", s.Stream)
	}
	if len(s.Values) != 1 || s.Values[0][0] != strconv.FormatInt(fin.UnixNano(), 10) {
		t.Errorf("values: %v", s.Values)
	}
}

func TestPushRapportJSON_LigneInvalide(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	// Unparseable lines are still pushed, with current time and no extra labels.
	if err := PushRapportJSON(context.Background(), srv.URL, []byte("pas du json")); err != nil {
		t.Errorf("PushRapportJSON: %v", err)
	}
}

func TestPushRapportJSON_SansURL(t *testing.T) {
	if err := PushRapportJSON(context.Background(), "", []byte(`{}`)); err == nil {
		t.Error("empty base URL should return an error")
	}
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	// Must not panic.
	EmitAsync(nil, Rapport{JobType: "X"})
}
