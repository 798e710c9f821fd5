package clients

import (
	"time"
)

// PullRequestDiff is the result of the two-fetch PR lookup: metadata first,
// then the diff-formatted body.
type PullRequestDiff struct {
	Diff        string `json:"diff"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Webhook describes a repository webhook registered for this application.
type Webhook struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// RepoFile is one text file fetched from a repository tree.
type RepoFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// FolderNode is one directory in the visualizer tree. Children hold
// subdirectories only; FileCount counts the files directly inside.
type FolderNode struct {
	Path      string        `json:"path"`
	Name      string        `json:"name"`
	FileCount int           `json:"fileCount"`
	GitHubURL string        `json:"githubUrl"`
	Children  []*FolderNode `json:"children"`
}

// FolderStructure pairs the directory tree with the branch head SHA.
type FolderStructure struct {
	FolderTree      *FolderNode `json:"folderTree"`
	LatestCommitSHA string      `json:"latestCommitSHA"`
}

// Collaborator is one repository collaborator joined with commit statistics.
type Collaborator struct {
	Username               string `json:"username"`
	Avatar                 string `json:"avatar"`
	ProfileURL             string `json:"profileUrl"`
	Commits                int    `json:"commits"`
	ContributionPercentage string `json:"contributionPercentage"`
}

// CollaboratorStats is the collaborator list with aggregate commit totals.
type CollaboratorStats struct {
	Collaborators []Collaborator `json:"collaborators"`
	TotalCommits  int            `json:"totalCommits"`
}

// MutationResult is the structured success/failure shape returned by
// collaborator mutations so UI code can render inline errors instead of
// handling thrown failures.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UserRepository is one repository visible to the authenticated GitHub user.
type UserRepository struct {
	GitHubID    int64     `json:"github_id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	URL         string    `json:"url"`
	Private     bool      `json:"private"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}
