package models

import (
	"time"
)

// GitHub webhook event types handled by the receiver. Anything else falls
// through to the generic "Event Processed" acknowledgment.
const (
	GitHubEventPing        = "ping"
	GitHubEventPush        = "push"
	GitHubEventIssues      = "issues"
	GitHubEventPullRequest = "pull_request"
)

// Pull request actions that trigger an AI review.
const (
	PullRequestActionOpened      = "opened"
	PullRequestActionSynchronize = "synchronize"
)

// GitHubEventRepository is the repository block common to webhook payloads.
type GitHubEventRepository struct {
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

// GitHubPusher identifies who pushed the commits in a push event.
type GitHubPusher struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GitHubCommitAuthor is the author block of one commit in a push event.
type GitHubCommitAuthor struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// GitHubPushCommit is one commit in a push event payload.
type GitHubPushCommit struct {
	ID        string             `json:"id"`
	Message   string             `json:"message"`
	URL       string             `json:"url"`
	Timestamp time.Time          `json:"timestamp"`
	Author    GitHubCommitAuthor `json:"author"`
	Added     []string           `json:"added"`
	Modified  []string           `json:"modified"`
	Removed   []string           `json:"removed"`
}

// GitHubPushEvent is the subset of GitHub's push webhook payload we project
// into commit activity records.
type GitHubPushEvent struct {
	Ref        string                `json:"ref"`
	Repository GitHubEventRepository `json:"repository"`
	Pusher     GitHubPusher          `json:"pusher"`
	Commits    []GitHubPushCommit    `json:"commits"`
}

// GitHubPullRequestDetails carries the head SHA used for review dedup.
type GitHubPullRequestDetails struct {
	Title string `json:"title"`
	Head  struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

// GitHubPullRequestEvent is the subset of GitHub's pull_request webhook
// payload the receiver inspects before triggering a review.
type GitHubPullRequestEvent struct {
	Action      string                   `json:"action"`
	Number      int                      `json:"number"`
	Repository  GitHubEventRepository    `json:"repository"`
	PullRequest GitHubPullRequestDetails `json:"pull_request"`
}

// GitHubIssuesEvent is logged only; issues handling is an extension point.
type GitHubIssuesEvent struct {
	Action     string                `json:"action"`
	Repository GitHubEventRepository `json:"repository"`
	Issue      struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
	} `json:"issue"`
}
