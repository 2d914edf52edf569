package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gitalyzer/internal/models"
	"golang.org/x/sync/errgroup"
)

const defaultBaseURL = "https://api.github.com"

const (
	requestTimeout    = 20 * time.Second
	readmeExcerptLen  = 4000
	recentCommitCount = 5
	maxErrorBody      = 2048
)

// InvalidURLError reports a repository URL that could not be reduced to an
// owner/name pair.
type InvalidURLError struct {
	Reason string
}

func (e *InvalidURLError) Error() string { return e.Reason }

// APIError reports a failed call against the GitHub REST API. Err is set for
// transport-level failures; otherwise StatusCode and Body describe the
// upstream response.
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("contacting GitHub: %v", e.Err)
	}
	return fmt.Sprintf("Unable to retrieve repository: %d %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error { return e.Err }

// Client is a thin wrapper around the GitHub REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// ExtractOwnerRepo reduces a repository URL to its owner and name. Trailing
// slashes, a .git suffix, and extra path segments after the name are all
// tolerated.
func ExtractOwnerRepo(repoURL string) (owner, repo string, err error) {
	if !strings.Contains(repoURL, "github.com") {
		return "", "", &InvalidURLError{Reason: "The provided URL does not appear to be a GitHub repository"}
	}

	cleaned := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	tail := cleaned
	if i := strings.LastIndex(cleaned, "github.com/"); i != -1 {
		tail = cleaned[i+len("github.com/"):]
	}
	segments := strings.Split(tail, "/")
	if len(segments) < 2 {
		return "", "", &InvalidURLError{Reason: "Please include both the owner and repository name in the URL"}
	}

	return segments[0], strings.TrimSuffix(segments[1], ".git"), nil
}

// FetchSnapshot collects repository metadata, language statistics, a README
// excerpt, and recent commits. Only the metadata call is load-bearing; the
// other facets degrade to empty values when they fail.
func (c *Client) FetchSnapshot(ctx context.Context, owner, repo string) (*models.Snapshot, error) {
	base := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)

	var payload repoPayload
	if err := c.fetchJSON(ctx, base, &payload); err != nil {
		return nil, err
	}

	var (
		languages map[string]int
		readme    string
		commits   []models.Commit
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.fetchOptional(gCtx, base+"/languages", &languages)
		return nil
	})
	g.Go(func() error {
		var rp readmePayload
		if c.fetchOptional(gCtx, base+"/readme", &rp) {
			readme = decodeReadme(rp)
		}
		return nil
	})
	g.Go(func() error {
		var items []commitItem
		if c.fetchOptional(gCtx, fmt.Sprintf("%s/commits?per_page=%d", base, recentCommitCount), &items) {
			for _, item := range items {
				commit := models.Commit{Message: item.Commit.Message}
				if item.Commit.Author != nil {
					commit.Date = item.Commit.Author.Date
				}
				commits = append(commits, commit)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if languages == nil {
		languages = map[string]int{}
	}
	if commits == nil {
		commits = []models.Commit{}
	}
	topics := payload.Topics
	if topics == nil {
		topics = []string{}
	}

	snap := &models.Snapshot{
		Name:          payload.Name,
		FullName:      payload.FullName,
		Description:   payload.Description,
		HTMLURL:       payload.HTMLURL,
		DefaultBranch: payload.DefaultBranch,
		Stars:         payload.Stars,
		Forks:         payload.Forks,
		OpenIssues:    payload.OpenIssues,
		Watchers:      payload.Watchers,
		Language:      payload.Language,
		Topics:        topics,
		Languages:     languages,
		RecentCommits: commits,
		ReadmeExcerpt: readme,
	}
	if payload.License != nil {
		snap.License = payload.License.Name
	}
	return snap, nil
}

// --- internal ---

type repoPayload struct {
	Name          string  `json:"name"`
	FullName      string  `json:"full_name"`
	Description   *string `json:"description"`
	HTMLURL       string  `json:"html_url"`
	DefaultBranch string  `json:"default_branch"`
	License       *struct {
		Name *string `json:"name"`
	} `json:"license"`
	Stars      int      `json:"stargazers_count"`
	Forks      int      `json:"forks_count"`
	OpenIssues int      `json:"open_issues_count"`
	Watchers   int      `json:"subscribers_count"`
	Language   *string  `json:"language"`
	Topics     []string `json:"topics"`
}

type readmePayload struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type commitItem struct {
	Commit struct {
		Message string `json:"message"`
		Author  *struct {
			Date *string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpClient.Do(req)
}

// fetchJSON issues a load-bearing GET: anything other than a decodable 200
// comes back as an *APIError.
func (c *Client) fetchJSON(ctx context.Context, url string, dst any) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return &APIError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Err: fmt.Errorf("reading response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &APIError{Err: fmt.Errorf("parsing response: %w", err)}
	}
	return nil
}

// fetchOptional issues a best-effort GET and reports whether dst was
// populated. Failures of any kind read as absence.
func (c *Client) fetchOptional(ctx context.Context, url string, dst any) bool {
	resp, err := c.get(ctx, url)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	return json.Unmarshal(body, dst) == nil
}

// decodeReadme reverses GitHub's base64 README transport encoding. The API
// inserts newlines into the encoded payload, so whitespace is stripped
// before decoding; invalid UTF-8 is dropped and the result trimmed to a
// fixed excerpt length.
func decodeReadme(payload readmePayload) string {
	if payload.Content == "" {
		return ""
	}
	if payload.Encoding != "" && payload.Encoding != "base64" {
		return ""
	}
	compact := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, payload.Content)
	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return ""
	}
	text := strings.ToValidUTF8(string(raw), "")
	if runes := []rune(text); len(runes) > readmeExcerptLen {
		text = string(runes[:readmeExcerptLen])
	}
	return text
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
