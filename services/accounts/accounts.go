package accounts

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"linequeue/core"
	"linequeue/db"
	"linequeue/models"
)

type AccountsService struct {
	accountsRepo *db.PostgresAccountsRepository
}

func NewAccountsService(repo *db.PostgresAccountsRepository) *AccountsService {
	return &AccountsService{accountsRepo: repo}
}

// UpsertAccount stores or refreshes the provider access token for a user.
// Tokens rotate on every dashboard session so the upsert always overwrites.
func (s *AccountsService) UpsertAccount(
	ctx context.Context,
	userID, providerID, accessToken string,
) (*models.Account, error) {
	log.Printf("📋 Starting to upsert account for user: %s, provider: %s", userID, providerID)

	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}
	if providerID == "" {
		return nil, fmt.Errorf("provider ID cannot be empty")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("access token cannot be empty")
	}

	account := &models.Account{
		ID:          core.NewID("acc"),
		UserID:      userID,
		ProviderID:  providerID,
		AccessToken: accessToken,
	}
	if err := s.accountsRepo.UpsertAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}

	log.Printf("📋 Completed successfully - upserted account with ID: %s", account.ID)
	return account, nil
}

func (s *AccountsService) GetAccountByUserAndProvider(
	ctx context.Context,
	userID, providerID string,
) (mo.Option[*models.Account], error) {
	log.Printf("📋 Starting to get account for user: %s, provider: %s", userID, providerID)

	if userID == "" {
		return mo.None[*models.Account](), fmt.Errorf("user ID cannot be empty")
	}
	if providerID == "" {
		return mo.None[*models.Account](), fmt.Errorf("provider ID cannot be empty")
	}

	maybeAccount, err := s.accountsRepo.GetAccountByUserAndProvider(ctx, userID, providerID)
	if err != nil {
		return mo.None[*models.Account](), fmt.Errorf("failed to get account: %w", err)
	}

	log.Printf("📋 Completed successfully - account found: %t", maybeAccount.IsPresent())
	return maybeAccount, nil
}
