package users

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"linequeue/core"
	"linequeue/db"
	"linequeue/models"
)

type UsersService struct {
	usersRepo *db.PostgresUsersRepository
}

func NewUsersService(repo *db.PostgresUsersRepository) *UsersService {
	return &UsersService{usersRepo: repo}
}

func (s *UsersService) GetOrCreateUser(ctx context.Context, authProvider, authProviderID string) (*models.User, error) {
	log.Printf("📋 Starting to get or create user for authProvider: %s, authProviderID: %s", authProvider, authProviderID)

	if authProvider == "" {
		return nil, fmt.Errorf("auth_provider cannot be empty")
	}

	if authProviderID == "" {
		return nil, fmt.Errorf("auth_provider_id cannot be empty")
	}

	maybeUser, err := s.usersRepo.GetUserByAuthProvider(ctx, authProvider, authProviderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user, ok := maybeUser.Get(); ok {
		log.Printf("📋 Completed successfully - found existing user with ID: %s", user.ID)
		return user, nil
	}

	user := &models.User{
		ID:             core.NewID("u"),
		AuthProvider:   authProvider,
		AuthProviderID: authProviderID,
	}
	if err := s.usersRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("📋 Completed successfully - created user with ID: %s", user.ID)
	return user, nil
}

func (s *UsersService) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	log.Printf("📋 Starting to get user by ID: %s", id)

	if id == "" {
		return mo.None[*models.User](), fmt.Errorf("user ID cannot be empty")
	}

	maybeUser, err := s.usersRepo.GetUserByID(ctx, id)
	if err != nil {
		return mo.None[*models.User](), fmt.Errorf("failed to get user by ID: %w", err)
	}

	log.Printf("📋 Completed successfully - user found: %t", maybeUser.IsPresent())
	return maybeUser, nil
}
