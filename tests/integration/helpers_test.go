//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
}

// doJSON sends payload (if any) to path, attaching INTEGRATION_EDITOR_TOKEN
// when set, and decodes the JSON response body.
func doJSON(t *testing.T, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", baseURL(), path), &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := os.Getenv("INTEGRATION_EDITOR_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, out
}

// firstCategory returns the id of any seeded category.
func firstCategory(t *testing.T) string {
	t.Helper()
	status, body := doJSON(t, http.MethodGet, "/categories", nil)
	if status != http.StatusOK {
		t.Fatalf("list categories: unexpected status %d", status)
	}
	categories, ok := body["categories"].(map[string]interface{})
	if !ok || len(categories) == 0 {
		t.Fatalf("no categories seeded: %v", body)
	}
	for id := range categories {
		return id
	}
	return ""
}

func createQuestion(t *testing.T, text, category string) int64 {
	t.Helper()
	status, body := doJSON(t, http.MethodPost, "/questions", map[string]interface{}{
		"question":   text,
		"answer":     "integration",
		"category":   category,
		"difficulty": 1,
	})
	if status != http.StatusOK {
		t.Fatalf("create question: unexpected status %d: %v", status, body)
	}
	id, ok := body["created"].(float64)
	if !ok {
		t.Fatalf("created id missing: %v", body)
	}
	return int64(id)
}
