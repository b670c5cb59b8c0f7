package suivijob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// lokiPushRequest is the Loki push API request body (v1).
type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"` // each entry is [timestamp_ns, log_line]
}

// Loki label names must match [a-zA-Z_:][a-zA-Z0-9_:]*.
var labelSanitize = regexp.MustCompile(`[^a-zA-Z0-9_\-:]`)

// rapportFields picks the fields used as labels from a report JSON line.
type rapportFields struct {
	JobType string    `json:"jobType"`
	Succes  bool      `json:"succes"`
	DateFin time.Time `json:"dateFin"`
}

// PushRapportJSON parses a report line (Kafka message value), extracts labels
// and timestamp, and pushes it to Loki. If parsing fails, the raw line is
// pushed with the current time.
func PushRapportJSON(ctx context.Context, baseURL string, rawJSON []byte) error {
	labels := map[string]string{}
	ts := time.Now().UTC()
	var fields rapportFields
	if err := json.Unmarshal(rawJSON, &fields); err == nil {
		if fields.JobType != "" {
			labels["job_type"] = fields.JobType
		}
		labels["succes"] = strconv.FormatBool(fields.Succes)
		if !fields.DateFin.IsZero() {
			ts = fields.DateFin
		}
	}
	return pushLine(ctx, baseURL, ts, string(rawJSON), labels)
}

func pushLine(ctx context.Context, baseURL string, timestamp time.Time, line string, labels map[string]string) error {
	if baseURL == "" {
		return fmt.Errorf("loki: base URL is empty")
	}
	streamLabels := make(map[string]string, len(labels)+1)
	streamLabels["job"] = "suivi-jobs"
	for k, v := range labels {
		sanitized := labelSanitize.ReplaceAllString(strings.TrimSpace(v), "_")
		if sanitized != "" {
			streamLabels[k] = sanitized
		}
	}
	body := lokiPushRequest{
		Streams: []lokiStream{{
			Stream: streamLabels,
			Values: [][]string{{fmt.Sprintf("%d", timestamp.UnixNano()), line}},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	url := strings.TrimSuffix(baseURL, "/") + "/loki/api/v1/push"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("loki: push returned %s", resp.Status)
	}
	return nil
}
