package indexing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"linequeue/clients"
	"linequeue/models"
	"linequeue/services"
)

// IndexingUseCase consumes repository-connected messages and builds the
// vector index the review pipeline retrieves from.
type IndexingUseCase struct {
	githubClient        clients.GitHubClient
	repositoriesService services.RepositoriesService
	accountsService     services.AccountsService
	ragIndexService     services.RAGIndexService
}

func NewIndexingUseCase(
	githubClient clients.GitHubClient,
	repositoriesService services.RepositoriesService,
	accountsService services.AccountsService,
	ragIndexService services.RAGIndexService,
) *IndexingUseCase {
	return &IndexingUseCase{
		githubClient:        githubClient,
		repositoriesService: repositoriesService,
		accountsService:     accountsService,
		ragIndexService:     ragIndexService,
	}
}

// ProcessRepositoryConnected fetches the repository's text files and indexes
// them. Runs as a queue consumer so a connect request returns before the
// walk and embedding work happens.
func (u *IndexingUseCase) ProcessRepositoryConnected(ctx context.Context, msg *models.QueuedMessage) error {
	var payload models.RepositoryConnectedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal repository connected payload: %w", err)
	}

	log.Printf("📋 Starting to index connected repository %s/%s", payload.Owner, payload.Repo)

	maybeRepo, err := u.repositoriesService.GetRepositoryByOwnerAndName(ctx, payload.Owner, payload.Repo)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}
	repository, ok := maybeRepo.Get()
	if !ok {
		// Disconnected between enqueue and processing. Nothing to index.
		log.Printf("⚠️ Repository %s/%s no longer connected, skipping indexing", payload.Owner, payload.Repo)
		return nil
	}

	maybeAccount, err := u.accountsService.GetAccountByUserAndProvider(
		ctx, payload.UserID, models.ProviderGitHub)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	account, ok := maybeAccount.Get()
	if !ok {
		return fmt.Errorf("no github account connected for user %s", payload.UserID)
	}

	files, err := u.githubClient.GetRepoFileContents(ctx, account.AccessToken, payload.Owner, payload.Repo)
	if err != nil {
		return fmt.Errorf("failed to fetch repository files: %w", err)
	}

	indexed, err := u.ragIndexService.IndexCodebase(ctx, repository.ID, files)
	if err != nil {
		return fmt.Errorf("failed to index codebase: %w", err)
	}

	log.Printf("📋 Completed successfully - indexed %d files for %s/%s", indexed, payload.Owner, payload.Repo)
	return nil
}
