package handlers

import (
	"context"
	"log"

	"linequeue/clients"
	"linequeue/models"
	"linequeue/services"
	"linequeue/usecases/repositories"
)

type DashboardAPIHandler struct {
	repositoriesUseCase   *repositories.RepositoriesUseCase
	repositoriesService   services.RepositoriesService
	reviewsService        services.ReviewsService
	commitActivityService services.CommitActivityService
}

func NewDashboardAPIHandler(
	repositoriesUseCase *repositories.RepositoriesUseCase,
	repositoriesService services.RepositoriesService,
	reviewsService services.ReviewsService,
	commitActivityService services.CommitActivityService,
) *DashboardAPIHandler {
	return &DashboardAPIHandler{
		repositoriesUseCase:   repositoriesUseCase,
		repositoriesService:   repositoriesService,
		reviewsService:        reviewsService,
		commitActivityService: commitActivityService,
	}
}

// ListConnectedRepositories returns the user's connected repositories
func (h *DashboardAPIHandler) ListConnectedRepositories(
	ctx context.Context,
	user *models.User,
) ([]*models.Repository, error) {
	log.Printf("📋 Listing connected repositories for user: %s", user.ID)
	repos, err := h.repositoriesService.GetRepositoriesByUserID(ctx, user.ID)
	if err != nil {
		log.Printf("❌ Failed to list connected repositories: %v", err)
		return nil, err
	}

	log.Printf("✅ Retrieved %d connected repositories for user: %s", len(repos), user.ID)
	return repos, nil
}

// ListAvailableRepositories returns the user's GitHub repositories
func (h *DashboardAPIHandler) ListAvailableRepositories(
	ctx context.Context,
	user *models.User,
	page, perPage int,
) ([]clients.UserRepository, error) {
	log.Printf("📋 Listing available GitHub repositories for user: %s", user.ID)
	repos, err := h.repositoriesUseCase.ListAvailableRepositories(ctx, user.ID, page, perPage)
	if err != nil {
		log.Printf("❌ Failed to list available repositories: %v", err)
		return nil, err
	}

	log.Printf("✅ Retrieved %d available repositories for user: %s", len(repos), user.ID)
	return repos, nil
}

// ConnectRepository connects a repository and kicks off indexing
func (h *DashboardAPIHandler) ConnectRepository(
	ctx context.Context,
	user *models.User,
	githubID int64,
	owner, name, url string,
) (*models.Repository, error) {
	log.Printf("➕ Connecting repository %s/%s for user: %s", owner, name, user.ID)
	repo, err := h.repositoriesUseCase.ConnectRepository(ctx, user.ID, githubID, owner, name, url)
	if err != nil {
		log.Printf("❌ Failed to connect repository: %v", err)
		return nil, err
	}

	log.Printf("✅ Repository connected successfully: %s", repo.ID)
	return repo, nil
}

// DisconnectRepository removes a connected repository
func (h *DashboardAPIHandler) DisconnectRepository(
	ctx context.Context,
	user *models.User,
	repositoryID string,
) error {
	log.Printf("🗑️ Disconnecting repository: %s", repositoryID)
	if err := h.repositoriesUseCase.DisconnectRepository(ctx, user.ID, repositoryID); err != nil {
		log.Printf("❌ Failed to disconnect repository: %v", err)
		return err
	}

	log.Printf("✅ Repository disconnected successfully: %s", repositoryID)
	return nil
}

// ListReviews returns the user's recent reviews across all repositories
func (h *DashboardAPIHandler) ListReviews(
	ctx context.Context,
	user *models.User,
	limit int,
) ([]*models.Review, error) {
	log.Printf("📋 Listing reviews for user: %s", user.ID)
	reviews, err := h.reviewsService.GetReviewsByUserID(ctx, user.ID, limit)
	if err != nil {
		log.Printf("❌ Failed to list reviews: %v", err)
		return nil, err
	}

	log.Printf("✅ Retrieved %d reviews for user: %s", len(reviews), user.ID)
	return reviews, nil
}

// ListRepositoryReviews returns the reviews of one connected repository
func (h *DashboardAPIHandler) ListRepositoryReviews(
	ctx context.Context,
	repositoryID string,
	limit int,
) ([]*models.Review, error) {
	log.Printf("📋 Listing reviews for repository: %s", repositoryID)
	reviews, err := h.reviewsService.GetReviewsByRepositoryID(ctx, repositoryID, limit)
	if err != nil {
		log.Printf("❌ Failed to list repository reviews: %v", err)
		return nil, err
	}

	log.Printf("✅ Retrieved %d reviews for repository: %s", len(reviews), repositoryID)
	return reviews, nil
}

// ListCommitActivity returns recent commit activity, optionally scoped to a
// single repository by full name
func (h *DashboardAPIHandler) ListCommitActivity(
	ctx context.Context,
	repoFullName string,
	limit int,
) ([]*models.CommitActivity, error) {
	if repoFullName != "" {
		log.Printf("📋 Listing commit activity for repo: %s", repoFullName)
		return h.commitActivityService.GetRecentCommitActivityByRepo(ctx, repoFullName, limit)
	}

	log.Printf("📋 Listing recent commit activity")
	return h.commitActivityService.GetRecentCommitActivity(ctx, limit)
}

// GetFolderStructure returns the repository visualizer tree
func (h *DashboardAPIHandler) GetFolderStructure(
	ctx context.Context,
	user *models.User,
	repositoryID, branch string,
) (*clients.FolderStructure, error) {
	log.Printf("📋 Getting folder structure for repository: %s", repositoryID)
	structure, err := h.repositoriesUseCase.GetFolderStructure(ctx, user.ID, repositoryID, branch)
	if err != nil {
		log.Printf("❌ Failed to get folder structure: %v", err)
		return nil, err
	}

	log.Printf("✅ Retrieved folder structure for repository: %s", repositoryID)
	return structure, nil
}

// GetCollaborators returns collaborator commit statistics
func (h *DashboardAPIHandler) GetCollaborators(
	ctx context.Context,
	user *models.User,
	repositoryID string,
) (*clients.CollaboratorStats, error) {
	log.Printf("📋 Getting collaborators for repository: %s", repositoryID)
	stats, err := h.repositoriesUseCase.GetCollaborators(ctx, user.ID, repositoryID)
	if err != nil {
		log.Printf("❌ Failed to get collaborators: %v", err)
		return nil, err
	}

	log.Printf("✅ Retrieved %d collaborators for repository: %s", len(stats.Collaborators), repositoryID)
	return stats, nil
}

// AddCollaborator invites a collaborator to the repository
func (h *DashboardAPIHandler) AddCollaborator(
	ctx context.Context,
	user *models.User,
	repositoryID, username, permission string,
) (*clients.MutationResult, error) {
	log.Printf("➕ Adding collaborator %s to repository: %s", username, repositoryID)
	return h.repositoriesUseCase.AddCollaborator(ctx, user.ID, repositoryID, username, permission)
}

// RemoveCollaborator removes a collaborator from the repository
func (h *DashboardAPIHandler) RemoveCollaborator(
	ctx context.Context,
	user *models.User,
	repositoryID, username string,
) (*clients.MutationResult, error) {
	log.Printf("🗑️ Removing collaborator %s from repository: %s", username, repositoryID)
	return h.repositoriesUseCase.RemoveCollaborator(ctx, user.ID, repositoryID, username)
}
