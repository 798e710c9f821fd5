package github

import (
	"context"

	"github.com/stretchr/testify/mock"

	"linequeue/clients"
)

// MockGitHubClient is a mock implementation of clients.GitHubClient
type MockGitHubClient struct {
	mock.Mock
}

func (m *MockGitHubClient) GetPullRequestDiff(
	ctx context.Context,
	token, owner, repo string,
	prNumber int,
) (*clients.PullRequestDiff, error) {
	args := m.Called(ctx, token, owner, repo, prNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.PullRequestDiff), args.Error(1)
}

func (m *MockGitHubClient) CreateWebhook(
	ctx context.Context,
	token, owner, repo string,
) (*clients.Webhook, error) {
	args := m.Called(ctx, token, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.Webhook), args.Error(1)
}

func (m *MockGitHubClient) DeleteWebhook(ctx context.Context, token, owner, repo string) bool {
	args := m.Called(ctx, token, owner, repo)
	return args.Bool(0)
}

func (m *MockGitHubClient) GetRepoFileContents(
	ctx context.Context,
	token, owner, repo string,
) ([]clients.RepoFile, error) {
	args := m.Called(ctx, token, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.RepoFile), args.Error(1)
}

func (m *MockGitHubClient) GetRepoFolderStructure(
	ctx context.Context,
	token, owner, repo, branch string,
) (*clients.FolderStructure, error) {
	args := m.Called(ctx, token, owner, repo, branch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.FolderStructure), args.Error(1)
}

func (m *MockGitHubClient) GetLatestCommitSHA(
	ctx context.Context,
	token, owner, repo, branch string,
) (string, error) {
	args := m.Called(ctx, token, owner, repo, branch)
	return args.String(0), args.Error(1)
}

func (m *MockGitHubClient) PostReviewComment(
	ctx context.Context,
	token, owner, repo string,
	prNumber int,
	review string,
) error {
	args := m.Called(ctx, token, owner, repo, prNumber, review)
	return args.Error(0)
}

func (m *MockGitHubClient) GetCollaborators(
	ctx context.Context,
	token, owner, repo string,
) (*clients.CollaboratorStats, error) {
	args := m.Called(ctx, token, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.CollaboratorStats), args.Error(1)
}

func (m *MockGitHubClient) AddCollaborator(
	ctx context.Context,
	token, owner, repo, username, permission string,
) *clients.MutationResult {
	args := m.Called(ctx, token, owner, repo, username, permission)
	return args.Get(0).(*clients.MutationResult)
}

func (m *MockGitHubClient) RemoveCollaborator(
	ctx context.Context,
	token, owner, repo, username string,
) *clients.MutationResult {
	args := m.Called(ctx, token, owner, repo, username)
	return args.Get(0).(*clients.MutationResult)
}

func (m *MockGitHubClient) ListRepositoriesForUser(
	ctx context.Context,
	token string,
	page, perPage int,
) ([]clients.UserRepository, error) {
	args := m.Called(ctx, token, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.UserRepository), args.Error(1)
}
