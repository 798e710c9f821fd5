package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"linequeue/clients"
	"linequeue/models"
	"linequeue/services"
	"linequeue/services/dispatch"
)

// errDuplicateRequest aborts the enqueue transaction when an equivalent
// review request is already queued, rolling back the placeholder review row.
var errDuplicateRequest = errors.New("duplicate review request")

// ReviewsUseCase orchestrates pull request reviews: it reacts to webhook
// triggers by queueing review work, and consumes queued work by generating
// and posting the review.
type ReviewsUseCase struct {
	githubClient        clients.GitHubClient
	reviewModel         clients.ReviewModelClient
	repositoriesService services.RepositoriesService
	accountsService     services.AccountsService
	reviewsService      services.ReviewsService
	ragIndexService     services.RAGIndexService
	dispatchService     services.DispatchService
	txManager           services.TransactionManager
}

func NewReviewsUseCase(
	githubClient clients.GitHubClient,
	reviewModel clients.ReviewModelClient,
	repositoriesService services.RepositoriesService,
	accountsService services.AccountsService,
	reviewsService services.ReviewsService,
	ragIndexService services.RAGIndexService,
	dispatchService services.DispatchService,
	txManager services.TransactionManager,
) *ReviewsUseCase {
	return &ReviewsUseCase{
		githubClient:        githubClient,
		reviewModel:         reviewModel,
		repositoriesService: repositoriesService,
		accountsService:     accountsService,
		reviewsService:      reviewsService,
		ragIndexService:     ragIndexService,
		dispatchService:     dispatchService,
		txManager:           txManager,
	}
}

// ReviewPullRequest handles a pull_request webhook trigger. It records a
// queued review and enqueues the generation work in one transaction, keyed so
// duplicate deliveries for the same head commit collapse into a single review.
func (u *ReviewsUseCase) ReviewPullRequest(
	ctx context.Context,
	owner, repo string,
	prNumber int,
	headSHA string,
) error {
	log.Printf("📋 Starting to process review trigger for %s/%s PR #%d", owner, repo, prNumber)

	maybeRepo, err := u.repositoriesService.GetRepositoryByOwnerAndName(ctx, owner, repo)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}
	repository, ok := maybeRepo.Get()
	if !ok {
		log.Printf("⚠️ Repository %s/%s is not connected, ignoring review trigger", owner, repo)
		return nil
	}

	maybeAccount, err := u.accountsService.GetAccountByUserAndProvider(
		ctx, repository.UserID, models.ProviderGitHub)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	account, ok := maybeAccount.Get()
	if !ok {
		return u.recordFetchFailure(ctx, repository, owner, repo, prNumber,
			fmt.Errorf("no github account connected for user %s", repository.UserID))
	}

	prDiff, err := u.githubClient.GetPullRequestDiff(ctx, account.AccessToken, owner, repo, prNumber)
	if err != nil {
		return u.recordFetchFailure(ctx, repository, owner, repo, prNumber,
			fmt.Errorf("failed to fetch pull request: %w", err))
	}

	prURL := fmt.Sprintf("https://github.com/%s/%s/pull/%d", owner, repo, prNumber)
	dedupKey := fmt.Sprintf("%s/%s#%d@%s", owner, repo, prNumber, headSHA)

	// The review row and the queue entry commit together. A duplicate
	// delivery hits the dedup index and rolls the placeholder row back out.
	err = u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		review, err := u.reviewsService.CreateQueuedReview(ctx, repository.ID, prNumber, prDiff.Title, prURL)
		if err != nil {
			return fmt.Errorf("failed to create queued review: %w", err)
		}

		payload := models.PRReviewRequestedPayload{
			Owner:    owner,
			Repo:     repo,
			PRNumber: prNumber,
			UserID:   repository.UserID,
			ReviewID: review.ID,
		}
		inserted, err := u.dispatchService.EnqueueMessage(
			ctx, models.MessagePRReviewRequested, payload, &dedupKey)
		if err != nil {
			return fmt.Errorf("failed to enqueue review request: %w", err)
		}
		if !inserted {
			return errDuplicateRequest
		}
		return nil
	})
	if errors.Is(err, errDuplicateRequest) {
		log.Printf("📨 Review for %s/%s PR #%d at %s already queued, skipping", owner, repo, prNumber, headSHA)
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("📋 Completed successfully - queued review for %s/%s PR #%d", owner, repo, prNumber)
	return nil
}

// recordFetchFailure writes a failed review so the dashboard surfaces
// triggers that died before any work was queued. Persistence errors here are
// logged and swallowed - the original failure is what the caller reports.
func (u *ReviewsUseCase) recordFetchFailure(
	ctx context.Context,
	repository *models.Repository,
	owner, repo string,
	prNumber int,
	cause error,
) error {
	prURL := fmt.Sprintf("https://github.com/%s/%s/pull/%d", owner, repo, prNumber)
	body := fmt.Sprintf("Error: %v", cause)

	if _, err := u.reviewsService.CreateFailedReview(
		ctx, repository.ID, prNumber, "Failed to fetch PR", prURL, body); err != nil {
		log.Printf("❌ Failed to record failed review for %s/%s PR #%d: %v", owner, repo, prNumber, err)
	}

	return cause
}

// ProcessReviewRequested is the queue consumer for pr.review-requested
// messages. It regenerates the diff, retrieves indexed context, asks the
// model for a review, completes the review row and posts the PR comment.
func (u *ReviewsUseCase) ProcessReviewRequested(ctx context.Context, msg *models.QueuedMessage) error {
	var payload models.PRReviewRequestedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal review request payload: %w", err)
	}

	log.Printf("📋 Starting to generate review for %s/%s PR #%d", payload.Owner, payload.Repo, payload.PRNumber)

	if err := u.generateReview(ctx, payload); err != nil {
		// The runner retries failed messages, so the review row stays
		// queued until the last attempt dies. Failing it earlier would
		// block the retry from ever completing.
		if msg.Attempts >= dispatch.MaxAttempts {
			body := fmt.Sprintf("Error: %v", err)
			if failErr := u.reviewsService.FailReview(ctx, payload.ReviewID, body); failErr != nil {
				log.Printf("❌ Failed to mark review %s failed: %v", payload.ReviewID, failErr)
			}
		}
		return err
	}

	log.Printf("📋 Completed successfully - generated review for %s/%s PR #%d",
		payload.Owner, payload.Repo, payload.PRNumber)
	return nil
}

func (u *ReviewsUseCase) generateReview(ctx context.Context, payload models.PRReviewRequestedPayload) error {
	maybeAccount, err := u.accountsService.GetAccountByUserAndProvider(
		ctx, payload.UserID, models.ProviderGitHub)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	account, ok := maybeAccount.Get()
	if !ok {
		return fmt.Errorf("no github account connected for user %s", payload.UserID)
	}

	prDiff, err := u.githubClient.GetPullRequestDiff(
		ctx, account.AccessToken, payload.Owner, payload.Repo, payload.PRNumber)
	if err != nil {
		return fmt.Errorf("failed to fetch pull request diff: %w", err)
	}

	maybeRepo, err := u.repositoriesService.GetRepositoryByOwnerAndName(ctx, payload.Owner, payload.Repo)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}
	repository, ok := maybeRepo.Get()
	if !ok {
		return fmt.Errorf("repository %s/%s is no longer connected", payload.Owner, payload.Repo)
	}

	contextChunks, err := u.ragIndexService.RetrieveContext(ctx, repository.ID, prDiff.Diff, 0)
	if err != nil {
		// Retrieval is best-effort: a review from the diff alone beats no
		// review at all.
		log.Printf("⚠️ Failed to retrieve context for %s/%s: %v", payload.Owner, payload.Repo, err)
		contextChunks = nil
	}

	reviewText, err := u.reviewModel.GenerateReview(ctx, prDiff.Diff, contextChunks)
	if err != nil {
		return fmt.Errorf("failed to generate review: %w", err)
	}

	if err := u.reviewsService.CompleteReview(ctx, payload.ReviewID, reviewText); err != nil {
		return fmt.Errorf("failed to complete review: %w", err)
	}

	// The review text is already persisted, so a lost comment is an
	// annoyance rather than a lost review. Retrying here would double-post.
	if err := u.githubClient.PostReviewComment(
		ctx, account.AccessToken, payload.Owner, payload.Repo, payload.PRNumber, reviewText); err != nil {
		log.Printf("⚠️ Failed to post review comment for %s/%s PR #%d: %v",
			payload.Owner, payload.Repo, payload.PRNumber, err)
	}

	return nil
}
