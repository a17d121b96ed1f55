//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"testing"
)

type question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

type questionsPage struct {
	Questions      []question        `json:"questions"`
	Categories     map[string]string `json:"categories"`
	TotalQuestions int               `json:"total_questions"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:5000")
}

// call sends payload as JSON (when non-nil) and decodes the response into out
// (when non-nil). It returns the status code.
func call(t *testing.T, method, path string, payload, out interface{}) int {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, baseURL()+path, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// anyCategory returns a seeded category id or skips the test.
func anyCategory(t *testing.T) int {
	t.Helper()

	var out struct {
		Categories map[string]string `json:"categories"`
	}
	if status := call(t, http.MethodGet, "/categories", nil, &out); status != http.StatusOK {
		t.Skipf("no categories seeded (status %d); run cmd/importer first", status)
	}
	for key := range out.Categories {
		id, err := strconv.Atoi(key)
		if err == nil {
			return id
		}
	}
	t.Skip("no categories seeded")
	return 0
}
