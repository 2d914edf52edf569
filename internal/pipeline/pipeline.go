package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"gitalyzer/internal/analysis"
	"gitalyzer/internal/config"
	"gitalyzer/internal/github"
	"gitalyzer/internal/models"
)

// Request carries one analysis job through the pipeline. APIKey is used for
// the duration of the request and never stored.
type Request struct {
	RepoURL string
	APIKey  string
	Model   string
}

// Result is everything the analyze endpoint returns. RawResponse holds the
// model's unparsed reply when AI was used, the failure message when the AI
// path was attempted but fell back, and nil when AI was never tried.
type Result struct {
	Repository  *models.Snapshot
	Analysis    models.Analysis
	UsedAI      bool
	RawResponse *string
}

// Analyze resolves the URL, snapshots the repository, and produces an
// analysis. With an API key the model is asked first and any failure falls
// back to the rule-based summary; without one the fallback is used directly.
func Analyze(ctx context.Context, cfg *config.Config, req Request) (*Result, error) {
	owner, repo, err := github.ExtractOwnerRepo(req.RepoURL)
	if err != nil {
		return nil, err
	}

	gh := github.NewClient(cfg.GitHubBaseURL, cfg.GitHubToken)
	snap, err := gh.FetchSnapshot(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	repoContext := BuildContext(snap)

	res := &Result{Repository: snap}
	if req.APIKey != "" {
		model := req.Model
		if model == "" {
			model = cfg.LLMModel
		}
		client := analysis.NewClient(cfg.LLMBaseURL, req.APIKey, model)
		parsed, raw, aiErr := client.Explain(ctx, repoContext)
		if aiErr != nil {
			// Keep the failure message in the response to help debugging.
			log.Printf("WARN: falling back to rule-based summary for %s/%s: %v", owner, repo, aiErr)
			res.Analysis = analysis.Fallback(repoContext)
			msg := fmt.Sprintf("AI call failed: %v", aiErr)
			res.RawResponse = &msg
		} else {
			res.Analysis = parsed
			res.UsedAI = true
			res.RawResponse = &raw
		}
	} else {
		res.Analysis = analysis.Fallback(repoContext)
	}

	if err := res.Analysis.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// BuildContext renders the snapshot into the line-oriented block that both
// the model prompt and the rule-based fallback consume. Languages are
// ordered by byte count (largest first) so the line is stable across runs.
func BuildContext(snap *models.Snapshot) string {
	var commitLines []string
	for _, c := range snap.RecentCommits {
		date := "unknown date"
		if c.Date != nil {
			date = *c.Date
		}
		commitLines = append(commitLines, fmt.Sprintf("  - %s (%s)", strings.TrimSpace(c.Message), date))
	}
	commitsBlock := strings.Join(commitLines, "\n")
	if commitsBlock == "" {
		commitsBlock = "  - No recent commits retrieved."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", orDefault(snap.FullName, snap.Name))
	fmt.Fprintf(&b, "Description: %s\n", derefOr(snap.Description, "No description provided."))
	fmt.Fprintf(&b, "Primary language: %s\n", derefOr(snap.Language, "Unknown"))
	fmt.Fprintf(&b, "Languages: %s\n", orDefault(formatLanguages(snap.Languages), "Not reported"))
	fmt.Fprintf(&b, "Stars: %d, Forks: %d, Open issues: %d\n", snap.Stars, snap.Forks, snap.OpenIssues)
	fmt.Fprintf(&b, "Topics: %s\n", orDefault(strings.Join(snap.Topics, ", "), "None"))
	fmt.Fprintf(&b, "Default branch: %s\n", orDefault(snap.DefaultBranch, "main"))
	b.WriteString("Recent commits:\n")
	b.WriteString(commitsBlock)
	b.WriteString("\nREADME excerpt:\n")
	b.WriteString(orDefault(snap.ReadmeExcerpt, "No README available."))
	return b.String()
}

func formatLanguages(langs map[string]int) string {
	type entry struct {
		name  string
		bytes int
	}
	entries := make([]entry, 0, len(langs))
	for name, count := range langs {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].bytes != entries[j].bytes {
			return entries[i].bytes > entries[j].bytes
		}
		return entries[i].name < entries[j].name
	})
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s (%d)", e.name, e.bytes)
	}
	return strings.Join(parts, ", ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
