package commits

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"linequeue/core"
	"linequeue/db"
	"linequeue/models"
)

type CommitActivityService struct {
	commitActivityRepo *db.PostgresCommitActivityRepository
}

func NewCommitActivityService(repo *db.PostgresCommitActivityRepository) *CommitActivityService {
	return &CommitActivityService{commitActivityRepo: repo}
}

// RecordPushedCommits persists every commit from a push event concurrently.
// A failed insert is logged and skipped so one bad commit never loses the
// rest of the push. Returns the number of commits actually saved.
func (s *CommitActivityService) RecordPushedCommits(
	ctx context.Context,
	commits []*models.CommitActivity,
) (int, error) {
	log.Printf("📋 Starting to record %d pushed commits", len(commits))

	if len(commits) == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup
	var saved atomic.Int64
	for _, commit := range commits {
		if commit.ID == "" {
			commit.ID = core.NewID("ca")
		}

		wg.Add(1)
		go func(c *models.CommitActivity) {
			defer wg.Done()
			if err := s.commitActivityRepo.CreateCommitActivity(ctx, c); err != nil {
				log.Printf("⚠️ Failed to record commit %s: %v", c.CommitID, err)
				return
			}
			saved.Add(1)
		}(commit)
	}
	wg.Wait()

	log.Printf("📋 Completed successfully - recorded %d/%d commits", saved.Load(), len(commits))
	return int(saved.Load()), nil
}

func (s *CommitActivityService) GetRecentCommitActivity(
	ctx context.Context,
	limit int,
) ([]*models.CommitActivity, error) {
	log.Printf("📋 Starting to get recent commit activity")

	if limit <= 0 {
		limit = 20
	}

	activities, err := s.commitActivityRepo.GetRecentCommitActivity(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent commit activity: %w", err)
	}

	log.Printf("📋 Completed successfully - retrieved %d commit activities", len(activities))
	return activities, nil
}

func (s *CommitActivityService) GetRecentCommitActivityByRepo(
	ctx context.Context,
	repoFullName string,
	limit int,
) ([]*models.CommitActivity, error) {
	log.Printf("📋 Starting to get commit activity for repo: %s", repoFullName)

	if repoFullName == "" {
		return nil, fmt.Errorf("repo full name cannot be empty")
	}
	if limit <= 0 {
		limit = 20
	}

	activities, err := s.commitActivityRepo.GetRecentCommitActivityByRepo(ctx, repoFullName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit activity for repo: %w", err)
	}

	log.Printf("📋 Completed successfully - retrieved %d commit activities", len(activities))
	return activities, nil
}
