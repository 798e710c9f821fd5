package github

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"
	"github.com/shopspring/decimal"

	"linequeue/clients"
)

// Default walk bounds for recursive tree fetches. A repository larger than
// this is indexed partially rather than walked without limit.
const (
	DefaultMaxWalkDepth = 20
	DefaultMaxWalkFiles = 2000
)

// Events this application's webhook subscribes to.
var webhookEvents = []string{"pull_request", "push", "issues"}

// Extensions excluded from file-content fetches.
var binaryExtensionRegex = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|ico|tar|gz|pdf|zip|svg)$`)

// Config holds the application-level settings for the GitHub gateway.
type Config struct {
	// WebhookURL is the full callback URL registered on connected
	// repositories. It also identifies which hook belongs to this
	// application when listing or deleting.
	WebhookURL string

	// WebhookSecret, when set, is registered on created hooks so inbound
	// deliveries can be signature-verified.
	WebhookSecret string

	// MaxWalkDepth and MaxWalkFiles bound recursive tree walks.
	MaxWalkDepth int
	MaxWalkFiles int

	// BaseURL overrides the GitHub API endpoint. Used by tests to point the
	// client at an httptest server. Must end with a trailing slash.
	BaseURL string
}

// GitHubClient implements the clients.GitHubClient interface using the
// go-github library with an ETag cache and secondary-rate-limit middleware.
type GitHubClient struct {
	config Config
}

// NewGitHubClient creates a new GitHub gateway with the provided configuration
func NewGitHubClient(config Config) (clients.GitHubClient, error) {
	if config.WebhookURL == "" {
		return nil, fmt.Errorf("webhook URL cannot be empty")
	}
	if config.MaxWalkDepth <= 0 {
		config.MaxWalkDepth = DefaultMaxWalkDepth
	}
	if config.MaxWalkFiles <= 0 {
		config.MaxWalkFiles = DefaultMaxWalkFiles
	}
	if config.BaseURL != "" {
		if _, err := url.Parse(config.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
	}

	return &GitHubClient{config: config}, nil
}

// clientForToken builds a fresh go-github client scoped to one access token.
// Transport stack: httpcache (conditional request caching) wrapped by the
// secondary rate limit middleware, then PAT auth.
func (c *GitHubClient) clientForToken(token string) (*gh.Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	if c.config.BaseURL != "" {
		u, err := url.Parse(c.config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL: %w", err)
		}
		client.BaseURL = u
	}

	return client, nil
}

func (c *GitHubClient) GetPullRequestDiff(
	ctx context.Context,
	token, owner, repo string,
	prNumber int,
) (*clients.PullRequestDiff, error) {
	client, err := c.clientForToken(token)
	if err != nil {
		return nil, err
	}

	pr, _, err := client.PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request %s/%s#%d: %w", owner, repo, prNumber, err)
	}

	diff, _, err := client.PullRequests.GetRaw(ctx, owner, repo, prNumber, gh.RawOptions{Type: gh.Diff})
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request diff %s/%s#%d: %w", owner, repo, prNumber, err)
	}

	return &clients.PullRequestDiff{
		Diff:        diff,
		Title:       pr.GetTitle(),
		Description: pr.GetBody(),
	}, nil
}

func (c *GitHubClient) CreateWebhook(
	ctx context.Context,
	token, owner, repo string,
) (*clients.Webhook, error) {
	client, err := c.clientForToken(token)
	if err != nil {
		return nil, err
	}

	hooks, _, err := client.Repositories.ListHooks(ctx, owner, repo, &gh.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks for %s/%s: %w", owner, repo, err)
	}

	// Idempotency: reuse a hook that already targets our callback URL
	for _, hook := range hooks {
		if hook.GetConfig().GetURL() == c.config.WebhookURL {
			return &clients.Webhook{ID: hook.GetID(), URL: hook.GetConfig().GetURL()}, nil
		}
	}

	hookConfig := &gh.HookConfig{
		URL:         gh.Ptr(c.config.WebhookURL),
		ContentType: gh.Ptr("json"),
	}
	if c.config.WebhookSecret != "" {
		hookConfig.Secret = gh.Ptr(c.config.WebhookSecret)
	}

	created, _, err := client.Repositories.CreateHook(ctx, owner, repo, &gh.Hook{
		Config: hookConfig,
		Events: webhookEvents,
		Active: gh.Ptr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook for %s/%s: %w", owner, repo, err)
	}

	return &clients.Webhook{ID: created.GetID(), URL: created.GetConfig().GetURL()}, nil
}

func (c *GitHubClient) DeleteWebhook(ctx context.Context, token, owner, repo string) bool {
	client, err := c.clientForToken(token)
	if err != nil {
		log.Printf("❌ Failed to build GitHub client for webhook deletion: %v", err)
		return false
	}

	hooks, _, err := client.Repositories.ListHooks(ctx, owner, repo, &gh.ListOptions{PerPage: 100})
	if err != nil {
		log.Printf("❌ Failed to list webhooks for %s/%s: %v", owner, repo, err)
		return false
	}

	// Delete only our own hook, never other integrations'
	for _, hook := range hooks {
		if hook.GetConfig().GetURL() != c.config.WebhookURL {
			continue
		}
		if _, err := client.Repositories.DeleteHook(ctx, owner, repo, hook.GetID()); err != nil {
			log.Printf("❌ Failed to delete webhook %d for %s/%s: %v", hook.GetID(), owner, repo, err)
			return false
		}
		return true
	}

	return false
}

// workItem is one pending directory in the iterative tree walk.
type workItem struct {
	path  string
	depth int
}

func (c *GitHubClient) GetRepoFileContents(
	ctx context.Context,
	token, owner, repo string,
) ([]clients.RepoFile, error) {
	client, err := c.clientForToken(token)
	if err != nil {
		return nil, err
	}

	var files []clients.RepoFile
	worklist := []workItem{{path: "", depth: 0}}

	for len(worklist) > 0 {
		item := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if len(files) >= c.config.MaxWalkFiles {
			log.Printf("⚠️ File walk for %s/%s hit the %d-file cap, returning partial contents", owner, repo, c.config.MaxWalkFiles)
			break
		}

		_, entries, _, err := client.Repositories.GetContents(ctx, owner, repo, item.path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get contents of %s/%s path %q: %w", owner, repo, item.path, err)
		}

		for _, entry := range entries {
			switch entry.GetType() {
			case "file":
				if binaryExtensionRegex.MatchString(entry.GetPath()) {
					continue
				}
				if len(files) >= c.config.MaxWalkFiles {
					continue
				}
				fileContent, _, _, err := client.Repositories.GetContents(ctx, owner, repo, entry.GetPath(), nil)
				if err != nil {
					return nil, fmt.Errorf("failed to get file %s/%s path %q: %w", owner, repo, entry.GetPath(), err)
				}
				if fileContent == nil {
					continue
				}
				content, err := fileContent.GetContent()
				if err != nil {
					// Submodules and oversized blobs have no decodable content
					log.Printf("⚠️ Skipping undecodable file %q in %s/%s: %v", entry.GetPath(), owner, repo, err)
					continue
				}
				files = append(files, clients.RepoFile{Path: entry.GetPath(), Content: content})
			case "dir":
				if item.depth+1 <= c.config.MaxWalkDepth {
					worklist = append(worklist, workItem{path: entry.GetPath(), depth: item.depth + 1})
				}
			}
		}
	}

	return files, nil
}

func (c *GitHubClient) GetRepoFolderStructure(
	ctx context.Context,
	token, owner, repo, branch string,
) (*clients.FolderStructure, error) {
	client, err := c.clientForToken(token)
	if err != nil {
		return nil, err
	}

	branchData, _, err := client.Repositories.GetBranch(ctx, owner, repo, branch, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to get branch %s of %s/%s: %w", branch, owner, repo, err)
	}
	latestCommitSHA := branchData.GetCommit().GetSHA()

	root := &clients.FolderNode{
		Path:      "",
		Name:      repo,
		GitHubURL: fmt.Sprintf("https://github.com/%s/%s", owner, repo),
		Children:  []*clients.FolderNode{},
	}

	type folderItem struct {
		node  *clients.FolderNode
		depth int
	}
	worklist := []folderItem{{node: root, depth: 0}}
	visited := 0

	for len(worklist) > 0 {
		item := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if visited >= c.config.MaxWalkFiles {
			log.Printf("⚠️ Folder walk for %s/%s hit the %d-directory cap, returning partial tree", owner, repo, c.config.MaxWalkFiles)
			break
		}
		visited++

		_, entries, _, err := client.Repositories.GetContents(ctx, owner, repo, item.node.Path, nil)
		if err != nil {
			// A directory that disappeared mid-walk is skipped, not fatal
			log.Printf("⚠️ Failed to list %q in %s/%s: %v", item.node.Path, owner, repo, err)
			continue
		}

		for _, entry := range entries {
			switch entry.GetType() {
			case "file":
				item.node.FileCount++
			case "dir":
				child := &clients.FolderNode{
					Path:      entry.GetPath(),
					Name:      entry.GetName(),
					GitHubURL: fmt.Sprintf("https://github.com/%s/%s/tree/%s/%s", owner, repo, branch, entry.GetPath()),
					Children:  []*clients.FolderNode{},
				}
				item.node.Children = append(item.node.Children, child)
				if item.depth+1 <= c.config.MaxWalkDepth {
					worklist = append(worklist, folderItem{node: child, depth: item.depth + 1})
				}
			}
		}
	}

	return &clients.FolderStructure{FolderTree: root, LatestCommitSHA: latestCommitSHA}, nil
}

func (c *GitHubClient) GetLatestCommitSHA(
	ctx context.Context,
	token, owner, repo, branch string,
) (string, error) {
	client, err := c.clientForToken(token)
	if err != nil {
		return "", err
	}

	branchData, _, err := client.Repositories.GetBranch(ctx, owner, repo, branch, 1)
	if err != nil {
		return "", fmt.Errorf("failed to get branch %s of %s/%s: %w", branch, owner, repo, err)
	}

	return branchData.GetCommit().GetSHA(), nil
}

func (c *GitHubClient) PostReviewComment(
	ctx context.Context,
	token, owner, repo string,
	prNumber int,
	review string,
) error {
	client, err := c.clientForToken(token)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("## AI CODE REVIEW \n\n%s \n\n -------\n *Powered By Line-Queue*", review)
	_, _, err = client.Issues.CreateComment(ctx, owner, repo, prNumber, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("failed to post review comment on %s/%s#%d: %w", owner, repo, prNumber, err)
	}

	return nil
}

func (c *GitHubClient) GetCollaborators(
	ctx context.Context,
	token, owner, repo string,
) (*clients.CollaboratorStats, error) {
	client, err := c.clientForToken(token)
	if err != nil {
		return nil, err
	}

	collaborators, _, err := client.Repositories.ListCollaborators(ctx, owner, repo, &gh.ListCollaboratorsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators for %s/%s: %w", owner, repo, err)
	}

	stats, _, err := client.Repositories.ListContributorsStats(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get contributor stats for %s/%s: %w", owner, repo, err)
	}

	commitsByLogin := make(map[string]int, len(stats))
	totalCommits := 0
	for _, stat := range stats {
		commitsByLogin[stat.GetAuthor().GetLogin()] = stat.GetTotal()
		totalCommits += stat.GetTotal()
	}

	result := &clients.CollaboratorStats{
		Collaborators: make([]clients.Collaborator, 0, len(collaborators)),
		TotalCommits:  totalCommits,
	}
	for _, collab := range collaborators {
		commits := commitsByLogin[collab.GetLogin()]
		percentage := "0"
		if totalCommits > 0 {
			percentage = decimal.NewFromInt(int64(commits) * 100).
				Div(decimal.NewFromInt(int64(totalCommits))).
				Round(2).
				String()
		}
		result.Collaborators = append(result.Collaborators, clients.Collaborator{
			Username:               collab.GetLogin(),
			Avatar:                 collab.GetAvatarURL(),
			ProfileURL:             collab.GetHTMLURL(),
			Commits:                commits,
			ContributionPercentage: percentage,
		})
	}

	return result, nil
}

func (c *GitHubClient) AddCollaborator(
	ctx context.Context,
	token, owner, repo, username, permission string,
) *clients.MutationResult {
	client, err := c.clientForToken(token)
	if err != nil {
		return &clients.MutationResult{Success: false, Error: err.Error()}
	}

	if permission == "" {
		permission = "push"
	}

	_, _, err = client.Repositories.AddCollaborator(ctx, owner, repo, username, &gh.RepositoryAddCollaboratorOptions{
		Permission: permission,
	})
	if err != nil {
		log.Printf("❌ Failed to add collaborator %s to %s/%s: %v", username, owner, repo, err)
		return &clients.MutationResult{Success: false, Error: err.Error()}
	}

	return &clients.MutationResult{
		Success: true,
		Message: fmt.Sprintf("Added %s as collaborator", username),
	}
}

func (c *GitHubClient) RemoveCollaborator(
	ctx context.Context,
	token, owner, repo, username string,
) *clients.MutationResult {
	client, err := c.clientForToken(token)
	if err != nil {
		return &clients.MutationResult{Success: false, Error: err.Error()}
	}

	if _, err := client.Repositories.RemoveCollaborator(ctx, owner, repo, username); err != nil {
		log.Printf("❌ Failed to remove collaborator %s from %s/%s: %v", username, owner, repo, err)
		return &clients.MutationResult{Success: false, Error: err.Error()}
	}

	return &clients.MutationResult{
		Success: true,
		Message: fmt.Sprintf("Removed %s from collaborators", username),
	}
}

func (c *GitHubClient) ListRepositoriesForUser(
	ctx context.Context,
	token string,
	page, perPage int,
) ([]clients.UserRepository, error) {
	client, err := c.clientForToken(token)
	if err != nil {
		return nil, err
	}

	repos, _, err := client.Repositories.ListByAuthenticatedUser(ctx, &gh.RepositoryListByAuthenticatedUserOptions{
		Sort:       "updated",
		Direction:  "desc",
		Visibility: "all",
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	result := make([]clients.UserRepository, 0, len(repos))
	for _, repo := range repos {
		owner := ""
		if parts := strings.SplitN(repo.GetFullName(), "/", 2); len(parts) == 2 {
			owner = parts[0]
		}
		result = append(result, clients.UserRepository{
			GitHubID:    repo.GetID(),
			Owner:       owner,
			Name:        repo.GetName(),
			FullName:    repo.GetFullName(),
			URL:         repo.GetHTMLURL(),
			Private:     repo.GetPrivate(),
			Description: repo.GetDescription(),
			UpdatedAt:   repo.GetUpdatedAt().Time,
		})
	}

	return result, nil
}
