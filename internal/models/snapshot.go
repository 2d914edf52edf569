package models

// Snapshot is the repository metadata returned to clients and fed into the
// narrative prompt. Fields GitHub reports as null stay nil.
type Snapshot struct {
	Name          string         `json:"name"`
	FullName      string         `json:"full_name"`
	Description   *string        `json:"description"`
	HTMLURL       string         `json:"html_url"`
	DefaultBranch string         `json:"default_branch"`
	License       *string        `json:"license"`
	Stars         int            `json:"stars"`
	Forks         int            `json:"forks"`
	OpenIssues    int            `json:"open_issues"`
	Watchers      int            `json:"watchers"`
	Language      *string        `json:"language"`
	Topics        []string       `json:"topics"`
	Languages     map[string]int `json:"languages"`
	RecentCommits []Commit       `json:"recent_commits"`
	ReadmeExcerpt string         `json:"readme_excerpt"`
}

// Commit is one entry of recent history. Date is the author timestamp as
// reported by GitHub; it stays nil when the author block is missing.
type Commit struct {
	Message string  `json:"message"`
	Date    *string `json:"date"`
}
