package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gitalyzer/internal/models"
)

// --- URL extraction tests ---

func TestExtractOwnerRepo(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		owner string
		repo  string
	}{
		{"plain", "https://github.com/golang/go", "golang", "go"},
		{"trailing slash", "https://github.com/golang/go/", "golang", "go"},
		{"git suffix", "https://github.com/golang/go.git", "golang", "go"},
		{"extra segments", "https://github.com/golang/go/tree/master/src", "golang", "go"},
		{"no scheme", "github.com/golang/go", "golang", "go"},
		{"padded", "  https://github.com/golang/go  ", "golang", "go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ExtractOwnerRepo(tt.url)
			if err != nil {
				t.Fatalf("ExtractOwnerRepo(%q): %v", tt.url, err)
			}
			if owner != tt.owner || repo != tt.repo {
				t.Errorf("got %s/%s, want %s/%s", owner, repo, tt.owner, tt.repo)
			}
		})
	}
}

func TestExtractOwnerRepo_Invalid(t *testing.T) {
	for _, url := range []string{
		"https://example.com/golang/go",
		"github.com",
		"https://github.com/golang",
		"",
	} {
		t.Run(url, func(t *testing.T) {
			_, _, err := ExtractOwnerRepo(url)
			var invalid *InvalidURLError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidURLError for %q, got %v", url, err)
			}
		})
	}
}

// --- Snapshot tests ---

func TestFetchSnapshot(t *testing.T) {
	readme := "# Demo\n\nA small demo project."
	encoded := base64.StdEncoding.EncodeToString([]byte(readme))
	// GitHub wraps the encoded payload across lines
	wrapped := encoded[:10] + "\n" + encoded[10:] + "\n"

	var gotAccept, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octo/demo":
			gotAccept = r.Header.Get("Accept")
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{
				"name": "demo",
				"full_name": "octo/demo",
				"description": "A demo",
				"html_url": "https://github.com/octo/demo",
				"default_branch": "main",
				"license": {"name": "MIT License"},
				"stargazers_count": 12,
				"forks_count": 3,
				"open_issues_count": 1,
				"subscribers_count": 7,
				"watchers_count": 999,
				"language": "Go",
				"topics": ["cli", "demo"]
			}`))
		case "/repos/octo/demo/languages":
			_, _ = w.Write([]byte(`{"Go": 900, "Makefile": 100}`))
		case "/repos/octo/demo/readme":
			_ = json.NewEncoder(w).Encode(map[string]string{"content": wrapped, "encoding": "base64"})
		case "/repos/octo/demo/commits":
			if got := r.URL.Query().Get("per_page"); got != "5" {
				t.Errorf("per_page = %q, want 5", got)
			}
			_, _ = w.Write([]byte(`[
				{"commit": {"message": "fix bug\n", "author": {"name": "o", "date": "2024-05-01T10:00:00Z"}}},
				{"commit": {"message": "initial", "author": null}}
			]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	snap, err := client.FetchSnapshot(context.Background(), "octo", "demo")
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}

	desc := "A demo"
	lic := "MIT License"
	lang := "Go"
	date := "2024-05-01T10:00:00Z"
	want := &models.Snapshot{
		Name:          "demo",
		FullName:      "octo/demo",
		Description:   &desc,
		HTMLURL:       "https://github.com/octo/demo",
		DefaultBranch: "main",
		License:       &lic,
		Stars:         12,
		Forks:         3,
		OpenIssues:    1,
		Watchers:      7,
		Language:      &lang,
		Topics:        []string{"cli", "demo"},
		Languages:     map[string]int{"Go": 900, "Makefile": 100},
		RecentCommits: []models.Commit{
			{Message: "fix bug\n", Date: &date},
			{Message: "initial", Date: nil},
		},
		ReadmeExcerpt: readme,
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot mismatch:\n%s", diff)
	}
	if gotAccept != "application/vnd.github+json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestFetchSnapshot_RepoNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.FetchSnapshot(context.Background(), "octo", "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if !strings.HasPrefix(apiErr.Error(), "Unable to retrieve repository: 404") {
		t.Errorf("unexpected message: %q", apiErr.Error())
	}
}

func TestFetchSnapshot_FacetsDegrade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/octo/bare" {
			_, _ = w.Write([]byte(`{"name": "bare", "full_name": "octo/bare", "stargazers_count": 1}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	snap, err := client.FetchSnapshot(context.Background(), "octo", "bare")
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if snap.Languages == nil || len(snap.Languages) != 0 {
		t.Errorf("Languages = %v, want empty map", snap.Languages)
	}
	if snap.RecentCommits == nil || len(snap.RecentCommits) != 0 {
		t.Errorf("RecentCommits = %v, want empty slice", snap.RecentCommits)
	}
	if snap.Topics == nil || len(snap.Topics) != 0 {
		t.Errorf("Topics = %v, want empty slice", snap.Topics)
	}
	if snap.ReadmeExcerpt != "" {
		t.Errorf("ReadmeExcerpt = %q, want empty", snap.ReadmeExcerpt)
	}
	if snap.Description != nil || snap.License != nil {
		t.Errorf("expected nil description and license, got %+v", snap)
	}
}

// --- README decoding tests ---

func TestDecodeReadme(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello world"))
	tests := []struct {
		name    string
		payload readmePayload
		want    string
	}{
		{"plain", readmePayload{Content: encoded, Encoding: "base64"}, "hello world"},
		{"wrapped lines", readmePayload{Content: encoded[:4] + "\n" + encoded[4:] + "\n", Encoding: "base64"}, "hello world"},
		{"missing encoding defaults to base64", readmePayload{Content: encoded}, "hello world"},
		{"unknown encoding", readmePayload{Content: encoded, Encoding: "none"}, ""},
		{"invalid base64", readmePayload{Content: "!!!", Encoding: "base64"}, ""},
		{"empty", readmePayload{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeReadme(tt.payload); got != tt.want {
				t.Errorf("decodeReadme = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeReadme_TruncatesRunes(t *testing.T) {
	long := strings.Repeat("é", readmeExcerptLen+100)
	payload := readmePayload{Content: base64.StdEncoding.EncodeToString([]byte(long)), Encoding: "base64"}
	got := decodeReadme(payload)
	if runes := []rune(got); len(runes) != readmeExcerptLen {
		t.Errorf("excerpt length = %d runes, want %d", len(runes), readmeExcerptLen)
	}
	if strings.Contains(got, "�") {
		t.Error("excerpt contains replacement characters")
	}
}

// --- Error tests ---

func TestAPIError_Messages(t *testing.T) {
	statusErr := &APIError{StatusCode: 502, Body: "bad gateway"}
	if got := statusErr.Error(); got != "Unable to retrieve repository: 502 bad gateway" {
		t.Errorf("status error = %q", got)
	}

	underlying := errors.New("dial tcp: timeout")
	transportErr := &APIError{Err: underlying}
	if !strings.Contains(transportErr.Error(), "contacting GitHub") {
		t.Errorf("transport error = %q", transportErr.Error())
	}
	if !errors.Is(transportErr, underlying) {
		t.Error("transport error does not unwrap to its cause")
	}
}
