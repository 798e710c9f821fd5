package reviews

import (
	"context"
	"fmt"
	"log"

	"linequeue/core"
	"linequeue/db"
	"linequeue/models"
)

type ReviewsService struct {
	reviewsRepo *db.PostgresReviewsRepository
}

func NewReviewsService(repo *db.PostgresReviewsRepository) *ReviewsService {
	return &ReviewsService{reviewsRepo: repo}
}

// CreateQueuedReview inserts the placeholder row that tracks a review from
// webhook receipt until the generator finishes. The dashboard shows it as
// pending until CompleteReview or FailReview flips the status.
func (s *ReviewsService) CreateQueuedReview(
	ctx context.Context,
	repositoryID string,
	prNumber int,
	title, url string,
) (*models.Review, error) {
	log.Printf("📋 Starting to create queued review for repository: %s, PR #%d", repositoryID, prNumber)

	if repositoryID == "" {
		return nil, fmt.Errorf("repository ID cannot be empty")
	}
	if prNumber <= 0 {
		return nil, fmt.Errorf("PR number must be positive")
	}

	review := &models.Review{
		ID:           core.NewID("rv"),
		RepositoryID: repositoryID,
		PRNumber:     prNumber,
		PRTitle:      title,
		PRURL:        url,
		Status:       models.ReviewStatusQueued,
	}
	if err := s.reviewsRepo.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create queued review: %w", err)
	}

	log.Printf("📋 Completed successfully - created queued review with ID: %s", review.ID)
	return review, nil
}

func (s *ReviewsService) CompleteReview(ctx context.Context, id, body string) error {
	log.Printf("📋 Starting to complete review: %s", id)

	if id == "" {
		return fmt.Errorf("review ID cannot be empty")
	}

	if err := s.reviewsRepo.UpdateReviewOutcome(ctx, id, body, models.ReviewStatusCompleted); err != nil {
		return fmt.Errorf("failed to complete review: %w", err)
	}

	log.Printf("📋 Completed successfully - review marked completed: %s", id)
	return nil
}

func (s *ReviewsService) FailReview(ctx context.Context, id, body string) error {
	log.Printf("📋 Starting to fail review: %s", id)

	if id == "" {
		return fmt.Errorf("review ID cannot be empty")
	}

	if err := s.reviewsRepo.UpdateReviewOutcome(ctx, id, body, models.ReviewStatusFailed); err != nil {
		return fmt.Errorf("failed to mark review failed: %w", err)
	}

	log.Printf("📋 Completed successfully - review marked failed: %s", id)
	return nil
}

// CreateFailedReview records a review that failed before a queued row could be
// created, so the dashboard still surfaces the failure.
func (s *ReviewsService) CreateFailedReview(
	ctx context.Context,
	repositoryID string,
	prNumber int,
	title, url, body string,
) (*models.Review, error) {
	log.Printf("📋 Starting to create failed review for repository: %s, PR #%d", repositoryID, prNumber)

	if repositoryID == "" {
		return nil, fmt.Errorf("repository ID cannot be empty")
	}

	review := &models.Review{
		ID:           core.NewID("rv"),
		RepositoryID: repositoryID,
		PRNumber:     prNumber,
		PRTitle:      title,
		PRURL:        url,
		Review:       body,
		Status:       models.ReviewStatusFailed,
	}
	if err := s.reviewsRepo.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create failed review: %w", err)
	}

	log.Printf("📋 Completed successfully - created failed review with ID: %s", review.ID)
	return review, nil
}

func (s *ReviewsService) GetReviewsByUserID(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.Review, error) {
	log.Printf("📋 Starting to get reviews for user: %s", userID)

	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}
	if limit <= 0 {
		limit = 20
	}

	reviews, err := s.reviewsRepo.GetReviewsByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for user: %w", err)
	}

	log.Printf("📋 Completed successfully - retrieved %d reviews", len(reviews))
	return reviews, nil
}

func (s *ReviewsService) GetReviewsByRepositoryID(
	ctx context.Context,
	repositoryID string,
	limit int,
) ([]*models.Review, error) {
	log.Printf("📋 Starting to get reviews for repository: %s", repositoryID)

	if repositoryID == "" {
		return nil, fmt.Errorf("repository ID cannot be empty")
	}
	if limit <= 0 {
		limit = 20
	}

	reviews, err := s.reviewsRepo.GetReviewsByRepositoryID(ctx, repositoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for repository: %w", err)
	}

	log.Printf("📋 Completed successfully - retrieved %d reviews", len(reviews))
	return reviews, nil
}
