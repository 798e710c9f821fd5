package repositories

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"linequeue/core"
	"linequeue/db"
	"linequeue/models"
)

type RepositoriesService struct {
	repositoriesRepo *db.PostgresRepositoriesRepository
}

func NewRepositoriesService(repo *db.PostgresRepositoriesRepository) *RepositoriesService {
	return &RepositoriesService{repositoriesRepo: repo}
}

func (s *RepositoriesService) CreateRepository(ctx context.Context, repo *models.Repository) error {
	log.Printf("📋 Starting to create repository: %s", repo.FullName)

	if repo.Owner == "" || repo.Name == "" {
		return fmt.Errorf("repository owner and name cannot be empty")
	}
	if repo.UserID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	if repo.ID == "" {
		repo.ID = core.NewID("repo")
	}
	if repo.FullName == "" {
		repo.FullName = repo.Owner + "/" + repo.Name
	}

	if err := s.repositoriesRepo.CreateRepository(ctx, repo); err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	log.Printf("📋 Completed successfully - created repository with ID: %s", repo.ID)
	return nil
}

func (s *RepositoriesService) GetRepositoryByOwnerAndName(
	ctx context.Context,
	owner, name string,
) (mo.Option[*models.Repository], error) {
	log.Printf("📋 Starting to get repository: %s/%s", owner, name)

	if owner == "" || name == "" {
		return mo.None[*models.Repository](), fmt.Errorf("repository owner and name cannot be empty")
	}

	maybeRepo, err := s.repositoriesRepo.GetRepositoryByOwnerAndName(ctx, owner, name)
	if err != nil {
		return mo.None[*models.Repository](), fmt.Errorf("failed to get repository: %w", err)
	}

	log.Printf("📋 Completed successfully - repository found: %t", maybeRepo.IsPresent())
	return maybeRepo, nil
}

func (s *RepositoriesService) GetRepositoryByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Repository], error) {
	log.Printf("📋 Starting to get repository by ID: %s", id)

	if id == "" {
		return mo.None[*models.Repository](), fmt.Errorf("repository ID cannot be empty")
	}

	maybeRepo, err := s.repositoriesRepo.GetRepositoryByID(ctx, id)
	if err != nil {
		return mo.None[*models.Repository](), fmt.Errorf("failed to get repository by ID: %w", err)
	}

	log.Printf("📋 Completed successfully - repository found: %t", maybeRepo.IsPresent())
	return maybeRepo, nil
}

func (s *RepositoriesService) GetRepositoriesByUserID(
	ctx context.Context,
	userID string,
) ([]*models.Repository, error) {
	log.Printf("📋 Starting to get repositories for user: %s", userID)

	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	repos, err := s.repositoriesRepo.GetRepositoriesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get repositories for user: %w", err)
	}

	log.Printf("📋 Completed successfully - retrieved %d repositories", len(repos))
	return repos, nil
}

// DeleteRepository removes a connected repository after verifying the caller
// owns it.
func (s *RepositoriesService) DeleteRepository(ctx context.Context, id, userID string) error {
	log.Printf("📋 Starting to delete repository: %s for user: %s", id, userID)

	if id == "" {
		return fmt.Errorf("repository ID cannot be empty")
	}
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	maybeRepo, err := s.repositoriesRepo.GetRepositoryByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}
	repo, ok := maybeRepo.Get()
	if !ok {
		return fmt.Errorf("repository not found: %s", id)
	}
	if repo.UserID != userID {
		return fmt.Errorf("repository %s does not belong to user %s", id, userID)
	}

	if err := s.repositoriesRepo.DeleteRepository(ctx, id); err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}

	log.Printf("📋 Completed successfully - deleted repository: %s", id)
	return nil
}
