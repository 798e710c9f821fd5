package reviews

import (
	"context"

	"github.com/stretchr/testify/mock"

	"linequeue/models"
)

// MockReviewsUseCase is a mock implementation of ReviewsUseCaseInterface
type MockReviewsUseCase struct {
	mock.Mock
}

func (m *MockReviewsUseCase) ReviewPullRequest(
	ctx context.Context,
	owner, repo string,
	prNumber int,
	headSHA string,
) error {
	args := m.Called(ctx, owner, repo, prNumber, headSHA)
	return args.Error(0)
}

func (m *MockReviewsUseCase) ProcessReviewRequested(ctx context.Context, msg *models.QueuedMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
