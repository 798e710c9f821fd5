package githubevents

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linequeue/models"
	"linequeue/services"
	"linequeue/usecases/reviews"
)

// Test helper functions
func createTestPushEvent(fullName string, commits ...models.GitHubPushCommit) models.GitHubPushEvent {
	return models.GitHubPushEvent{
		Ref: "refs/heads/main",
		Repository: models.GitHubEventRepository{
			FullName: fullName,
			HTMLURL:  "https://github.com/" + fullName,
		},
		Pusher:  models.GitHubPusher{Name: "octocat", Email: "octocat@example.com"},
		Commits: commits,
	}
}

func createTestPullRequestEvent(action string, number int) models.GitHubPullRequestEvent {
	event := models.GitHubPullRequestEvent{
		Action: action,
		Number: number,
		Repository: models.GitHubEventRepository{
			FullName: "acme/widgets",
			HTMLURL:  "https://github.com/acme/widgets",
		},
	}
	event.PullRequest.Title = "Add widgets"
	event.PullRequest.Head.SHA = "headsha"
	return event
}

// ProcessPushEvent Tests
func TestProcessPushEvent(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("Projects commits into activity records", func(t *testing.T) {
		mockCommits := &services.MockCommitActivityService{}
		mockReviews := &reviews.MockReviewsUseCase{}

		event := createTestPushEvent("acme/widgets", models.GitHubPushCommit{
			ID:        "abc123",
			Message:   "Fix widget alignment",
			URL:       "https://github.com/acme/widgets/commit/abc123",
			Timestamp: ts,
			Author: models.GitHubCommitAuthor{
				Name:     "Octo Cat",
				Email:    "octocat@example.com",
				Username: "octocat",
			},
			Added:    []string{"widget.go"},
			Modified: []string{"main.go", "README.md"},
			Removed:  []string{"legacy.go"},
		})

		var recorded []*models.CommitActivity
		mockCommits.On("RecordPushedCommits", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				recorded = args.Get(1).([]*models.CommitActivity)
			}).
			Return(1, nil)

		useCase := NewGitHubEventsUseCase(mockCommits, mockReviews)
		err := useCase.ProcessPushEvent(ctx, event)

		assert.NoError(t, err)
		require.Len(t, recorded, 1)
		activity := recorded[0]
		assert.Equal(t, "abc123", activity.CommitID)
		assert.Equal(t, "acme", activity.RepoOwner)
		assert.Equal(t, "widgets", activity.RepoName)
		assert.Equal(t, "acme/widgets", activity.RepoFullName)
		assert.Equal(t, "main", activity.Branch)
		assert.Equal(t, "https://github.com/octocat.png", activity.AuthorAvatar)
		assert.Equal(t, 4, activity.FilesChanged)
		assert.Equal(t, []string{"widget.go"}, activity.Changes.Added)
		assert.Equal(t, []string{"main.go", "README.md"}, activity.Changes.Modified)
		assert.Equal(t, []string{"legacy.go"}, activity.Changes.Removed)
		mockCommits.AssertExpectations(t)
	})

	t.Run("Push with no commits is a no-op", func(t *testing.T) {
		mockCommits := &services.MockCommitActivityService{}
		mockReviews := &reviews.MockReviewsUseCase{}

		useCase := NewGitHubEventsUseCase(mockCommits, mockReviews)
		err := useCase.ProcessPushEvent(ctx, createTestPushEvent("acme/widgets"))

		assert.NoError(t, err)
		mockCommits.AssertNotCalled(t, "RecordPushedCommits", mock.Anything, mock.Anything)
	})

	t.Run("Malformed full name errors", func(t *testing.T) {
		mockCommits := &services.MockCommitActivityService{}
		mockReviews := &reviews.MockReviewsUseCase{}

		event := createTestPushEvent("widgets", models.GitHubPushCommit{ID: "abc123"})

		useCase := NewGitHubEventsUseCase(mockCommits, mockReviews)
		err := useCase.ProcessPushEvent(ctx, event)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "malformed repository full name")
		mockCommits.AssertNotCalled(t, "RecordPushedCommits", mock.Anything, mock.Anything)
	})

	t.Run("Record failure propagates", func(t *testing.T) {
		mockCommits := &services.MockCommitActivityService{}
		mockReviews := &reviews.MockReviewsUseCase{}

		event := createTestPushEvent("acme/widgets", models.GitHubPushCommit{ID: "abc123"})
		mockCommits.On("RecordPushedCommits", ctx, mock.Anything).
			Return(0, fmt.Errorf("db down"))

		useCase := NewGitHubEventsUseCase(mockCommits, mockReviews)
		err := useCase.ProcessPushEvent(ctx, event)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to record pushed commits")
		mockCommits.AssertExpectations(t)
	})
}

// ProcessPullRequestEvent Tests
func TestProcessPullRequestEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Opened action triggers a review", func(t *testing.T) {
		mockCommits := &services.MockCommitActivityService{}
		mockReviews := &reviews.MockReviewsUseCase{}

		mockReviews.On("ReviewPullRequest", ctx, "acme", "widgets", 42, "headsha").
			Return(nil).Once()

		useCase := NewGitHubEventsUseCase(mockCommits, mockReviews)
		err := useCase.ProcessPullRequestEvent(ctx, createTestPullRequestEvent("opened", 42))

		assert.NoError(t, err)
		mockReviews.AssertExpectations(t)
	})

	t.Run("Synchronize action triggers a review", func(t *testing.T) {
		mockCommits := &services.MockCommitActivityService{}
		mockReviews := &reviews.MockReviewsUseCase{}

		mockReviews.On("ReviewPullRequest", ctx, "acme", "widgets", 7, "headsha").
			Return(nil).Once()

		useCase := NewGitHubEventsUseCase(mockCommits, mockReviews)
		err := useCase.ProcessPullRequestEvent(ctx, createTestPullRequestEvent("synchronize", 7))

		assert.NoError(t, err)
		mockReviews.AssertExpectations(t)
	})

	t.Run("Other actions are acknowledged without work", func(t *testing.T) {
		for _, action := range []string{"closed", "reopened", "edited", "labeled"} {
			t.Run(action, func(t *testing.T) {
				mockCommits := &services.MockCommitActivityService{}
				mockReviews := &reviews.MockReviewsUseCase{}

				useCase := NewGitHubEventsUseCase(mockCommits, mockReviews)
				err := useCase.ProcessPullRequestEvent(ctx, createTestPullRequestEvent(action, 42))

				assert.NoError(t, err)
				mockReviews.AssertNotCalled(t, "ReviewPullRequest",
					mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Review trigger failure propagates", func(t *testing.T) {
		mockCommits := &services.MockCommitActivityService{}
		mockReviews := &reviews.MockReviewsUseCase{}

		mockReviews.On("ReviewPullRequest", ctx, "acme", "widgets", 42, "headsha").
			Return(fmt.Errorf("db down"))

		useCase := NewGitHubEventsUseCase(mockCommits, mockReviews)
		err := useCase.ProcessPullRequestEvent(ctx, createTestPullRequestEvent("opened", 42))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to trigger pull request review")
		mockReviews.AssertExpectations(t)
	})
}

// ProcessIssuesEvent Tests
func TestProcessIssuesEvent(t *testing.T) {
	t.Run("Issues events are logged only", func(t *testing.T) {
		mockCommits := &services.MockCommitActivityService{}
		mockReviews := &reviews.MockReviewsUseCase{}

		event := models.GitHubIssuesEvent{Action: "opened"}
		event.Repository.FullName = "acme/widgets"
		event.Issue.Number = 3
		event.Issue.Title = "Widget crashes"

		useCase := NewGitHubEventsUseCase(mockCommits, mockReviews)
		err := useCase.ProcessIssuesEvent(context.Background(), event)

		assert.NoError(t, err)
	})
}
