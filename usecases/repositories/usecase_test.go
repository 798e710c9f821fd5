package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linequeue/clients"
	"linequeue/clients/github"
	"linequeue/models"
	"linequeue/services"
)

type useCaseMocks struct {
	githubClient *github.MockGitHubClient
	repositories *services.MockRepositoriesService
	accounts     *services.MockAccountsService
	ragIndex     *services.MockRAGIndexService
	dispatch     *services.MockDispatchService
}

func newUseCaseMocks() *useCaseMocks {
	return &useCaseMocks{
		githubClient: &github.MockGitHubClient{},
		repositories: &services.MockRepositoriesService{},
		accounts:     &services.MockAccountsService{},
		ragIndex:     &services.MockRAGIndexService{},
		dispatch:     &services.MockDispatchService{},
	}
}

func (m *useCaseMocks) useCase() *RepositoriesUseCase {
	return NewRepositoriesUseCase(m.githubClient, m.repositories, m.accounts, m.ragIndex, m.dispatch)
}

func (m *useCaseMocks) withAccount(ctx context.Context, userID, token string) {
	m.accounts.On("GetAccountByUserAndProvider", ctx, userID, models.ProviderGitHub).
		Return(mo.Some(&models.Account{
			ID:          "acc_test123",
			UserID:      userID,
			ProviderID:  models.ProviderGitHub,
			AccessToken: token,
		}), nil)
}

// ConnectRepository Tests
func TestConnectRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates webhook, row and indexing message", func(t *testing.T) {
		mocks := newUseCaseMocks()
		mocks.withAccount(ctx, "u_test123", "gho_token")
		mocks.githubClient.On("CreateWebhook", ctx, "gho_token", "acme", "widgets").
			Return(&clients.Webhook{ID: 99, URL: "https://linequeue.dev/api/webhooks/github"}, nil)

		var created *models.Repository
		mocks.repositories.On("CreateRepository", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.Repository)
			}).
			Return(nil)
		mocks.dispatch.On("EnqueueMessage", ctx, models.MessageRepositoryConnected,
			models.RepositoryConnectedPayload{Owner: "acme", Repo: "widgets", UserID: "u_test123"},
			(*string)(nil)).
			Return(true, nil)

		repository, err := mocks.useCase().ConnectRepository(
			ctx, "u_test123", 42, "acme", "widgets", "https://github.com/acme/widgets")

		require.NoError(t, err)
		require.NotNil(t, repository)
		assert.Equal(t, created, repository)
		assert.True(t, len(repository.ID) > len("repo_"))
		assert.Equal(t, int64(42), repository.GitHubID)
		assert.Equal(t, "acme/widgets", repository.FullName)
		assert.Equal(t, "u_test123", repository.UserID)
		mocks.githubClient.AssertExpectations(t)
		mocks.repositories.AssertExpectations(t)
		mocks.dispatch.AssertExpectations(t)
	})

	t.Run("Webhook failure leaves no row behind", func(t *testing.T) {
		mocks := newUseCaseMocks()
		mocks.withAccount(ctx, "u_test123", "gho_token")
		mocks.githubClient.On("CreateWebhook", ctx, "gho_token", "acme", "widgets").
			Return(nil, fmt.Errorf("403 forbidden"))

		repository, err := mocks.useCase().ConnectRepository(
			ctx, "u_test123", 42, "acme", "widgets", "https://github.com/acme/widgets")

		assert.Error(t, err)
		assert.Nil(t, repository)
		assert.Contains(t, err.Error(), "failed to create webhook")
		mocks.repositories.AssertNotCalled(t, "CreateRepository", mock.Anything, mock.Anything)
	})

	t.Run("Enqueue failure does not fail the connect", func(t *testing.T) {
		mocks := newUseCaseMocks()
		mocks.withAccount(ctx, "u_test123", "gho_token")
		mocks.githubClient.On("CreateWebhook", ctx, "gho_token", "acme", "widgets").
			Return(&clients.Webhook{ID: 99}, nil)
		mocks.repositories.On("CreateRepository", ctx, mock.Anything).Return(nil)
		mocks.dispatch.On("EnqueueMessage", ctx, models.MessageRepositoryConnected,
			mock.Anything, (*string)(nil)).
			Return(false, fmt.Errorf("db down"))

		repository, err := mocks.useCase().ConnectRepository(
			ctx, "u_test123", 42, "acme", "widgets", "https://github.com/acme/widgets")

		assert.NoError(t, err)
		assert.NotNil(t, repository)
	})

	t.Run("Empty owner or name is rejected", func(t *testing.T) {
		mocks := newUseCaseMocks()

		_, err := mocks.useCase().ConnectRepository(ctx, "u_test123", 42, "", "widgets", "")
		assert.Error(t, err)

		_, err = mocks.useCase().ConnectRepository(ctx, "u_test123", 42, "acme", "", "")
		assert.Error(t, err)
	})
}

// DisconnectRepository Tests
func TestDisconnectRepository(t *testing.T) {
	ctx := context.Background()
	repository := &models.Repository{
		ID:       "repo_abc123",
		Owner:    "acme",
		Name:     "widgets",
		FullName: "acme/widgets",
		UserID:   "u_test123",
	}

	t.Run("Removes webhook, row and index", func(t *testing.T) {
		mocks := newUseCaseMocks()
		mocks.repositories.On("GetRepositoryByID", ctx, "repo_abc123").
			Return(mo.Some(repository), nil)
		mocks.withAccount(ctx, "u_test123", "gho_token")
		mocks.githubClient.On("DeleteWebhook", ctx, "gho_token", "acme", "widgets").
			Return(true)
		mocks.repositories.On("DeleteRepository", ctx, "repo_abc123", "u_test123").
			Return(nil)
		mocks.ragIndex.On("DeleteRepositoryIndex", ctx, "repo_abc123").
			Return(nil)

		err := mocks.useCase().DisconnectRepository(ctx, "u_test123", "repo_abc123")

		assert.NoError(t, err)
		mocks.githubClient.AssertExpectations(t)
		mocks.repositories.AssertExpectations(t)
		mocks.ragIndex.AssertExpectations(t)
	})

	t.Run("Missing webhook does not block disconnect", func(t *testing.T) {
		mocks := newUseCaseMocks()
		mocks.repositories.On("GetRepositoryByID", ctx, "repo_abc123").
			Return(mo.Some(repository), nil)
		mocks.withAccount(ctx, "u_test123", "gho_token")
		mocks.githubClient.On("DeleteWebhook", ctx, "gho_token", "acme", "widgets").
			Return(false)
		mocks.repositories.On("DeleteRepository", ctx, "repo_abc123", "u_test123").
			Return(nil)
		mocks.ragIndex.On("DeleteRepositoryIndex", ctx, "repo_abc123").
			Return(nil)

		err := mocks.useCase().DisconnectRepository(ctx, "u_test123", "repo_abc123")

		assert.NoError(t, err)
	})

	t.Run("Index deletion failure does not block disconnect", func(t *testing.T) {
		mocks := newUseCaseMocks()
		mocks.repositories.On("GetRepositoryByID", ctx, "repo_abc123").
			Return(mo.Some(repository), nil)
		mocks.withAccount(ctx, "u_test123", "gho_token")
		mocks.githubClient.On("DeleteWebhook", ctx, "gho_token", "acme", "widgets").
			Return(true)
		mocks.repositories.On("DeleteRepository", ctx, "repo_abc123", "u_test123").
			Return(nil)
		mocks.ragIndex.On("DeleteRepositoryIndex", ctx, "repo_abc123").
			Return(fmt.Errorf("vector store unavailable"))

		err := mocks.useCase().DisconnectRepository(ctx, "u_test123", "repo_abc123")

		assert.NoError(t, err)
	})

	t.Run("Unknown repository errors", func(t *testing.T) {
		mocks := newUseCaseMocks()
		mocks.repositories.On("GetRepositoryByID", ctx, "repo_missing").
			Return(mo.None[*models.Repository](), nil)

		err := mocks.useCase().DisconnectRepository(ctx, "u_test123", "repo_missing")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "repository not found")
		mocks.repositories.AssertNotCalled(t, "DeleteRepository",
			mock.Anything, mock.Anything, mock.Anything)
	})
}

// Ownership check Tests
func TestOwnedRepositoryAccess(t *testing.T) {
	ctx := context.Background()
	repository := &models.Repository{
		ID:       "repo_abc123",
		Owner:    "acme",
		Name:     "widgets",
		FullName: "acme/widgets",
		UserID:   "u_owner",
	}

	t.Run("Owner gets folder structure", func(t *testing.T) {
		mocks := newUseCaseMocks()
		structure := &clients.FolderStructure{
			FolderTree:      &clients.FolderNode{Path: "", Name: "widgets", FileCount: 3},
			LatestCommitSHA: "headsha",
		}

		mocks.repositories.On("GetRepositoryByID", ctx, "repo_abc123").
			Return(mo.Some(repository), nil)
		mocks.withAccount(ctx, "u_owner", "gho_token")
		mocks.githubClient.On("GetRepoFolderStructure", ctx, "gho_token", "acme", "widgets", "main").
			Return(structure, nil)

		got, err := mocks.useCase().GetFolderStructure(ctx, "u_owner", "repo_abc123", "main")

		assert.NoError(t, err)
		assert.Equal(t, structure, got)
	})

	t.Run("Non-owner is rejected", func(t *testing.T) {
		mocks := newUseCaseMocks()
		mocks.repositories.On("GetRepositoryByID", ctx, "repo_abc123").
			Return(mo.Some(repository), nil)

		_, err := mocks.useCase().GetFolderStructure(ctx, "u_other", "repo_abc123", "main")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong to user")
		mocks.githubClient.AssertNotCalled(t, "GetRepoFolderStructure",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Collaborator mutations return structured results", func(t *testing.T) {
		mocks := newUseCaseMocks()
		mocks.repositories.On("GetRepositoryByID", ctx, "repo_abc123").
			Return(mo.Some(repository), nil)
		mocks.withAccount(ctx, "u_owner", "gho_token")
		mocks.githubClient.On("AddCollaborator", ctx, "gho_token", "acme", "widgets", "octocat", "push").
			Return(&clients.MutationResult{Success: true, Message: "Invitation sent to octocat"})

		result, err := mocks.useCase().AddCollaborator(ctx, "u_owner", "repo_abc123", "octocat", "push")

		require.NoError(t, err)
		assert.True(t, result.Success)
	})
}

// ListAvailableRepositories Tests
func TestListAvailableRepositories(t *testing.T) {
	ctx := context.Background()

	t.Run("Pages through the user's repositories", func(t *testing.T) {
		mocks := newUseCaseMocks()
		repos := []clients.UserRepository{
			{GitHubID: 1, Owner: "acme", Name: "widgets", FullName: "acme/widgets"},
			{GitHubID: 2, Owner: "acme", Name: "gadgets", FullName: "acme/gadgets"},
		}

		mocks.withAccount(ctx, "u_test123", "gho_token")
		mocks.githubClient.On("ListRepositoriesForUser", ctx, "gho_token", 2, 30).
			Return(repos, nil)

		got, err := mocks.useCase().ListAvailableRepositories(ctx, "u_test123", 2, 30)

		assert.NoError(t, err)
		assert.Equal(t, repos, got)
	})

	t.Run("No connected account errors", func(t *testing.T) {
		mocks := newUseCaseMocks()
		mocks.accounts.On("GetAccountByUserAndProvider", ctx, "u_test123", models.ProviderGitHub).
			Return(mo.None[*models.Account](), nil)

		_, err := mocks.useCase().ListAvailableRepositories(ctx, "u_test123", 1, 30)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no github account connected")
	})
}
