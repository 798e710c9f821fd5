package githubevents

import (
	"context"
	"fmt"
	"log"
	"strings"

	"linequeue/models"
	"linequeue/services"
	"linequeue/usecases/reviews"
	"linequeue/utils"
)

// GitHubEventsUseCase routes parsed webhook events to the pipelines that
// consume them: pushes into commit activity, pull requests into the review
// orchestrator.
type GitHubEventsUseCase struct {
	commitActivityService services.CommitActivityService
	reviewsUseCase        reviews.ReviewsUseCaseInterface
}

func NewGitHubEventsUseCase(
	commitActivityService services.CommitActivityService,
	reviewsUseCase reviews.ReviewsUseCaseInterface,
) *GitHubEventsUseCase {
	return &GitHubEventsUseCase{
		commitActivityService: commitActivityService,
		reviewsUseCase:        reviewsUseCase,
	}
}

// ProcessPushEvent projects each pushed commit into a commit activity record.
func (u *GitHubEventsUseCase) ProcessPushEvent(ctx context.Context, event models.GitHubPushEvent) error {
	log.Printf("📋 Starting to process push event for %s with %d commits",
		event.Repository.FullName, len(event.Commits))

	if len(event.Commits) == 0 {
		log.Printf("📋 Completed successfully - push event carried no commits")
		return nil
	}

	owner, name, ok := utils.SplitFullName(event.Repository.FullName)
	if !ok {
		return fmt.Errorf("malformed repository full name: %s", event.Repository.FullName)
	}
	branch := strings.TrimPrefix(event.Ref, "refs/heads/")

	activities := make([]*models.CommitActivity, 0, len(event.Commits))
	for _, commit := range event.Commits {
		activities = append(activities, &models.CommitActivity{
			AuthorName:     commit.Author.Name,
			AuthorEmail:    commit.Author.Email,
			AuthorUsername: commit.Author.Username,
			AuthorAvatar:   fmt.Sprintf("https://github.com/%s.png", commit.Author.Username),
			CommitID:       commit.ID,
			CommitMessage:  commit.Message,
			CommitURL:      commit.URL,
			Timestamp:      commit.Timestamp,
			RepoOwner:      owner,
			RepoName:       name,
			RepoFullName:   event.Repository.FullName,
			Branch:         branch,
			RepoURL:        event.Repository.HTMLURL,
			FilesChanged:   len(commit.Added) + len(commit.Modified) + len(commit.Removed),
			Changes: models.CommitChanges{
				Added:    commit.Added,
				Modified: commit.Modified,
				Removed:  commit.Removed,
			},
		})
	}

	saved, err := u.commitActivityService.RecordPushedCommits(ctx, activities)
	if err != nil {
		return fmt.Errorf("failed to record pushed commits: %w", err)
	}

	log.Printf("📋 Completed successfully - recorded %d/%d commits for %s",
		saved, len(event.Commits), event.Repository.FullName)
	return nil
}

// ProcessPullRequestEvent triggers a review for opened and synchronize
// actions. Every other action is acknowledged without work.
func (u *GitHubEventsUseCase) ProcessPullRequestEvent(
	ctx context.Context,
	event models.GitHubPullRequestEvent,
) error {
	log.Printf("📋 Starting to process pull_request event: %s for %s PR #%d",
		event.Action, event.Repository.FullName, event.Number)

	if event.Action != models.PullRequestActionOpened && event.Action != models.PullRequestActionSynchronize {
		log.Printf("📋 Completed successfully - action %s does not trigger a review", event.Action)
		return nil
	}

	owner, name, ok := utils.SplitFullName(event.Repository.FullName)
	if !ok {
		return fmt.Errorf("malformed repository full name: %s", event.Repository.FullName)
	}
	if err := u.reviewsUseCase.ReviewPullRequest(
		ctx, owner, name, event.Number, event.PullRequest.Head.SHA); err != nil {
		return fmt.Errorf("failed to trigger pull request review: %w", err)
	}

	log.Printf("📋 Completed successfully - processed pull_request event for %s PR #%d",
		event.Repository.FullName, event.Number)
	return nil
}

// ProcessIssuesEvent only logs for now. Issue triage is an extension point.
func (u *GitHubEventsUseCase) ProcessIssuesEvent(ctx context.Context, event models.GitHubIssuesEvent) error {
	log.Printf("📨 Received issues event: %s for %s issue #%d (%s)",
		event.Action, event.Repository.FullName, event.Issue.Number, event.Issue.Title)
	return nil
}
