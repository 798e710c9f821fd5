package services

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"linequeue/clients"
	"linequeue/models"
)

// PassthroughTransactionManager implements TransactionManager without a
// database, for unit tests exercising transactional flows with mocks.
type PassthroughTransactionManager struct{}

func (PassthroughTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (PassthroughTransactionManager) BeginTransaction(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

func (PassthroughTransactionManager) CommitTransaction(ctx context.Context) error {
	return nil
}

func (PassthroughTransactionManager) RollbackTransaction(ctx context.Context) error {
	return nil
}

// MockUsersService is a mock implementation of UsersService
type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) GetOrCreateUser(
	ctx context.Context,
	authProvider, authProviderID string,
) (*models.User, error) {
	args := m.Called(ctx, authProvider, authProviderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersService) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

// MockAccountsService is a mock implementation of AccountsService
type MockAccountsService struct {
	mock.Mock
}

func (m *MockAccountsService) UpsertAccount(
	ctx context.Context,
	userID, providerID, accessToken string,
) (*models.Account, error) {
	args := m.Called(ctx, userID, providerID, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountsService) GetAccountByUserAndProvider(
	ctx context.Context,
	userID, providerID string,
) (mo.Option[*models.Account], error) {
	args := m.Called(ctx, userID, providerID)
	return args.Get(0).(mo.Option[*models.Account]), args.Error(1)
}

// MockRepositoriesService is a mock implementation of RepositoriesService
type MockRepositoriesService struct {
	mock.Mock
}

func (m *MockRepositoriesService) CreateRepository(ctx context.Context, repo *models.Repository) error {
	args := m.Called(ctx, repo)
	return args.Error(0)
}

func (m *MockRepositoriesService) GetRepositoryByOwnerAndName(
	ctx context.Context,
	owner, name string,
) (mo.Option[*models.Repository], error) {
	args := m.Called(ctx, owner, name)
	return args.Get(0).(mo.Option[*models.Repository]), args.Error(1)
}

func (m *MockRepositoriesService) GetRepositoryByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Repository], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Repository]), args.Error(1)
}

func (m *MockRepositoriesService) GetRepositoriesByUserID(
	ctx context.Context,
	userID string,
) ([]*models.Repository, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Repository), args.Error(1)
}

func (m *MockRepositoriesService) DeleteRepository(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockReviewsService is a mock implementation of ReviewsService
type MockReviewsService struct {
	mock.Mock
}

func (m *MockReviewsService) CreateQueuedReview(
	ctx context.Context,
	repositoryID string,
	prNumber int,
	title, url string,
) (*models.Review, error) {
	args := m.Called(ctx, repositoryID, prNumber, title, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewsService) CompleteReview(ctx context.Context, id, body string) error {
	args := m.Called(ctx, id, body)
	return args.Error(0)
}

func (m *MockReviewsService) FailReview(ctx context.Context, id, body string) error {
	args := m.Called(ctx, id, body)
	return args.Error(0)
}

func (m *MockReviewsService) CreateFailedReview(
	ctx context.Context,
	repositoryID string,
	prNumber int,
	title, url, body string,
) (*models.Review, error) {
	args := m.Called(ctx, repositoryID, prNumber, title, url, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewsService) GetReviewsByUserID(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.Review, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewsService) GetReviewsByRepositoryID(
	ctx context.Context,
	repositoryID string,
	limit int,
) ([]*models.Review, error) {
	args := m.Called(ctx, repositoryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

// MockCommitActivityService is a mock implementation of CommitActivityService
type MockCommitActivityService struct {
	mock.Mock
}

func (m *MockCommitActivityService) RecordPushedCommits(
	ctx context.Context,
	commits []*models.CommitActivity,
) (int, error) {
	args := m.Called(ctx, commits)
	return args.Int(0), args.Error(1)
}

func (m *MockCommitActivityService) GetRecentCommitActivity(
	ctx context.Context,
	limit int,
) ([]*models.CommitActivity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommitActivity), args.Error(1)
}

func (m *MockCommitActivityService) GetRecentCommitActivityByRepo(
	ctx context.Context,
	repoFullName string,
	limit int,
) ([]*models.CommitActivity, error) {
	args := m.Called(ctx, repoFullName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommitActivity), args.Error(1)
}

// MockRAGIndexService is a mock implementation of RAGIndexService
type MockRAGIndexService struct {
	mock.Mock
}

func (m *MockRAGIndexService) IndexCodebase(
	ctx context.Context,
	repositoryID string,
	files []clients.RepoFile,
) (int, error) {
	args := m.Called(ctx, repositoryID, files)
	return args.Int(0), args.Error(1)
}

func (m *MockRAGIndexService) RetrieveContext(
	ctx context.Context,
	repositoryID, query string,
	topK int,
) ([]string, error) {
	args := m.Called(ctx, repositoryID, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRAGIndexService) DeleteRepositoryIndex(ctx context.Context, repositoryID string) error {
	args := m.Called(ctx, repositoryID)
	return args.Error(0)
}

// MockDispatchService is a mock implementation of DispatchService
type MockDispatchService struct {
	mock.Mock
}

func (m *MockDispatchService) EnqueueMessage(
	ctx context.Context,
	name string,
	payload any,
	dedupKey *string,
) (bool, error) {
	args := m.Called(ctx, name, payload, dedupKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockDispatchService) RegisterHandler(name string, handler MessageHandler) {
	m.Called(name, handler)
}

func (m *MockDispatchService) ProcessQueuedMessages(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatchService) RequeueStaleMessages(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
