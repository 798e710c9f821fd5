package reviews

import (
	"context"

	"linequeue/models"
)

// ReviewsUseCaseInterface defines the interface for review orchestration
type ReviewsUseCaseInterface interface {
	ReviewPullRequest(ctx context.Context, owner, repo string, prNumber int, headSHA string) error
	ProcessReviewRequested(ctx context.Context, msg *models.QueuedMessage) error
}
