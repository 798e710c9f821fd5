package anthropic

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockReviewModelClient is a mock implementation of clients.ReviewModelClient
type MockReviewModelClient struct {
	mock.Mock
}

func (m *MockReviewModelClient) GenerateReview(
	ctx context.Context,
	diff string,
	contextChunks []string,
) (string, error) {
	args := m.Called(ctx, diff, contextChunks)
	return args.String(0), args.Error(1)
}
