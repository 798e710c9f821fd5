package repositories

import (
	"context"
	"fmt"
	"log"

	"linequeue/clients"
	"linequeue/core"
	"linequeue/models"
	"linequeue/services"
)

// RepositoriesUseCase covers the dashboard's repository lifecycle: listing
// the user's GitHub repositories, connecting one (webhook + row + index
// kickoff) and disconnecting it again.
type RepositoriesUseCase struct {
	githubClient        clients.GitHubClient
	repositoriesService services.RepositoriesService
	accountsService     services.AccountsService
	ragIndexService     services.RAGIndexService
	dispatchService     services.DispatchService
}

func NewRepositoriesUseCase(
	githubClient clients.GitHubClient,
	repositoriesService services.RepositoriesService,
	accountsService services.AccountsService,
	ragIndexService services.RAGIndexService,
	dispatchService services.DispatchService,
) *RepositoriesUseCase {
	return &RepositoriesUseCase{
		githubClient:        githubClient,
		repositoriesService: repositoriesService,
		accountsService:     accountsService,
		ragIndexService:     ragIndexService,
		dispatchService:     dispatchService,
	}
}

func (u *RepositoriesUseCase) accessToken(ctx context.Context, userID string) (string, error) {
	maybeAccount, err := u.accountsService.GetAccountByUserAndProvider(ctx, userID, models.ProviderGitHub)
	if err != nil {
		return "", fmt.Errorf("failed to get account: %w", err)
	}
	account, ok := maybeAccount.Get()
	if !ok {
		return "", fmt.Errorf("no github account connected for user %s", userID)
	}
	return account.AccessToken, nil
}

// ListAvailableRepositories pages through the user's GitHub repositories.
func (u *RepositoriesUseCase) ListAvailableRepositories(
	ctx context.Context,
	userID string,
	page, perPage int,
) ([]clients.UserRepository, error) {
	log.Printf("📋 Starting to list available repositories for user: %s", userID)

	token, err := u.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	repos, err := u.githubClient.ListRepositoriesForUser(ctx, token, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	log.Printf("📋 Completed successfully - listed %d repositories", len(repos))
	return repos, nil
}

// ConnectRepository registers the webhook, records the connection and kicks
// off asynchronous indexing. The webhook is created first so a failure there
// leaves no half-connected row behind.
func (u *RepositoriesUseCase) ConnectRepository(
	ctx context.Context,
	userID string,
	githubID int64,
	owner, name, url string,
) (*models.Repository, error) {
	log.Printf("📋 Starting to connect repository %s/%s for user: %s", owner, name, userID)

	if owner == "" || name == "" {
		return nil, fmt.Errorf("repository owner and name cannot be empty")
	}

	token, err := u.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := u.githubClient.CreateWebhook(ctx, token, owner, name); err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}

	repository := &models.Repository{
		ID:       core.NewID("repo"),
		GitHubID: githubID,
		Owner:    owner,
		Name:     name,
		FullName: owner + "/" + name,
		URL:      url,
		UserID:   userID,
	}
	if err := u.repositoriesService.CreateRepository(ctx, repository); err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	payload := models.RepositoryConnectedPayload{
		Owner:  owner,
		Repo:   name,
		UserID: userID,
	}
	if _, err := u.dispatchService.EnqueueMessage(
		ctx, models.MessageRepositoryConnected, payload, nil); err != nil {
		// The connection stands. Indexing can be retried by reconnecting.
		log.Printf("❌ Failed to enqueue indexing for %s/%s: %v", owner, name, err)
	}

	log.Printf("📋 Completed successfully - connected repository with ID: %s", repository.ID)
	return repository, nil
}

// DisconnectRepository tears the connection down: webhook, database row and
// vector index. Webhook removal is best-effort since the user may have
// deleted it on GitHub already.
func (u *RepositoriesUseCase) DisconnectRepository(ctx context.Context, userID, repositoryID string) error {
	log.Printf("📋 Starting to disconnect repository %s for user: %s", repositoryID, userID)

	maybeRepo, err := u.repositoriesService.GetRepositoryByID(ctx, repositoryID)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}
	repository, ok := maybeRepo.Get()
	if !ok {
		return fmt.Errorf("repository not found: %s", repositoryID)
	}

	token, err := u.accessToken(ctx, userID)
	if err != nil {
		return err
	}

	if removed := u.githubClient.DeleteWebhook(ctx, token, repository.Owner, repository.Name); !removed {
		log.Printf("⚠️ Webhook for %s was not removed, continuing disconnect", repository.FullName)
	}

	if err := u.repositoriesService.DeleteRepository(ctx, repositoryID, userID); err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}

	if err := u.ragIndexService.DeleteRepositoryIndex(ctx, repositoryID); err != nil {
		log.Printf("⚠️ Failed to delete vector index for %s: %v", repository.FullName, err)
	}

	log.Printf("📋 Completed successfully - disconnected repository: %s", repositoryID)
	return nil
}

// GetFolderStructure returns the visualizer tree for a connected repository.
func (u *RepositoriesUseCase) GetFolderStructure(
	ctx context.Context,
	userID, repositoryID, branch string,
) (*clients.FolderStructure, error) {
	log.Printf("📋 Starting to get folder structure for repository: %s", repositoryID)

	repository, token, err := u.ownedRepository(ctx, userID, repositoryID)
	if err != nil {
		return nil, err
	}

	structure, err := u.githubClient.GetRepoFolderStructure(
		ctx, token, repository.Owner, repository.Name, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to get folder structure: %w", err)
	}

	log.Printf("📋 Completed successfully - built folder structure for %s", repository.FullName)
	return structure, nil
}

// GetCollaborators returns collaborator commit statistics for the dashboard.
func (u *RepositoriesUseCase) GetCollaborators(
	ctx context.Context,
	userID, repositoryID string,
) (*clients.CollaboratorStats, error) {
	log.Printf("📋 Starting to get collaborators for repository: %s", repositoryID)

	repository, token, err := u.ownedRepository(ctx, userID, repositoryID)
	if err != nil {
		return nil, err
	}

	stats, err := u.githubClient.GetCollaborators(ctx, token, repository.Owner, repository.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborators: %w", err)
	}

	log.Printf("📋 Completed successfully - retrieved %d collaborators", len(stats.Collaborators))
	return stats, nil
}

// AddCollaborator invites a GitHub user to the repository.
func (u *RepositoriesUseCase) AddCollaborator(
	ctx context.Context,
	userID, repositoryID, username, permission string,
) (*clients.MutationResult, error) {
	repository, token, err := u.ownedRepository(ctx, userID, repositoryID)
	if err != nil {
		return nil, err
	}

	result := u.githubClient.AddCollaborator(ctx, token, repository.Owner, repository.Name, username, permission)
	return result, nil
}

// RemoveCollaborator removes a GitHub user from the repository.
func (u *RepositoriesUseCase) RemoveCollaborator(
	ctx context.Context,
	userID, repositoryID, username string,
) (*clients.MutationResult, error) {
	repository, token, err := u.ownedRepository(ctx, userID, repositoryID)
	if err != nil {
		return nil, err
	}

	result := u.githubClient.RemoveCollaborator(ctx, token, repository.Owner, repository.Name, username)
	return result, nil
}

// ownedRepository resolves a repository and checks the caller owns it,
// returning the caller's GitHub token alongside.
func (u *RepositoriesUseCase) ownedRepository(
	ctx context.Context,
	userID, repositoryID string,
) (*models.Repository, string, error) {
	maybeRepo, err := u.repositoriesService.GetRepositoryByID(ctx, repositoryID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get repository: %w", err)
	}
	repository, ok := maybeRepo.Get()
	if !ok {
		return nil, "", fmt.Errorf("repository not found: %s", repositoryID)
	}
	if repository.UserID != userID {
		return nil, "", fmt.Errorf("repository %s does not belong to user %s", repositoryID, userID)
	}

	token, err := u.accessToken(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	return repository, token, nil
}
