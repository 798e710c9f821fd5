package services

import (
	"context"

	"github.com/samber/mo"

	"linequeue/clients"
	"linequeue/models"
)

// UsersService defines the interface for user-related operations
type UsersService interface {
	GetOrCreateUser(ctx context.Context, authProvider, authProviderID string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error)
}

// AccountsService defines the interface for provider account operations
type AccountsService interface {
	UpsertAccount(ctx context.Context, userID, providerID, accessToken string) (*models.Account, error)
	GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) (mo.Option[*models.Account], error)
}

// RepositoriesService defines the interface for connected repository operations
type RepositoriesService interface {
	CreateRepository(ctx context.Context, repo *models.Repository) error
	GetRepositoryByOwnerAndName(ctx context.Context, owner, name string) (mo.Option[*models.Repository], error)
	GetRepositoryByID(ctx context.Context, id string) (mo.Option[*models.Repository], error)
	GetRepositoriesByUserID(ctx context.Context, userID string) ([]*models.Repository, error)
	DeleteRepository(ctx context.Context, id, userID string) error
}

// ReviewsService defines the interface for pull request review records
type ReviewsService interface {
	CreateQueuedReview(ctx context.Context, repositoryID string, prNumber int, title, url string) (*models.Review, error)
	CompleteReview(ctx context.Context, id, body string) error
	FailReview(ctx context.Context, id, body string) error
	CreateFailedReview(
		ctx context.Context,
		repositoryID string,
		prNumber int,
		title, url, body string,
	) (*models.Review, error)
	GetReviewsByUserID(ctx context.Context, userID string, limit int) ([]*models.Review, error)
	GetReviewsByRepositoryID(ctx context.Context, repositoryID string, limit int) ([]*models.Review, error)
}

// CommitActivityService defines the interface for push event persistence
type CommitActivityService interface {
	RecordPushedCommits(ctx context.Context, commits []*models.CommitActivity) (int, error)
	GetRecentCommitActivity(ctx context.Context, limit int) ([]*models.CommitActivity, error)
	GetRecentCommitActivityByRepo(
		ctx context.Context,
		repoFullName string,
		limit int,
	) ([]*models.CommitActivity, error)
}

// RAGIndexService defines the interface for codebase indexing and retrieval
type RAGIndexService interface {
	IndexCodebase(ctx context.Context, repositoryID string, files []clients.RepoFile) (int, error)
	RetrieveContext(ctx context.Context, repositoryID, query string, topK int) ([]string, error)
	DeleteRepositoryIndex(ctx context.Context, repositoryID string) error
}

// DispatchService defines the interface for the durable message queue
type DispatchService interface {
	EnqueueMessage(ctx context.Context, name string, payload any, dedupKey *string) (bool, error)
	RegisterHandler(name string, handler MessageHandler)
	ProcessQueuedMessages(ctx context.Context) error
	RequeueStaleMessages(ctx context.Context) error
}

// MessageHandler processes one claimed queue message. A returned error marks
// the message failed or requeued depending on its attempt count.
type MessageHandler func(ctx context.Context, msg *models.QueuedMessage) error

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	BeginTransaction(ctx context.Context) (context.Context, error)
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
}
