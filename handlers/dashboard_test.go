package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linequeue/appctx"
	"linequeue/clients"
	"linequeue/clients/github"
	"linequeue/models"
	"linequeue/services"
	"linequeue/usecases/repositories"
)

type dashboardFixture struct {
	httpHandler *DashboardHTTPHandler
	mockGitHub  *github.MockGitHubClient
	mockRepos   *services.MockRepositoriesService
	mockAcc     *services.MockAccountsService
	mockReviews *services.MockReviewsService
	mockCommits *services.MockCommitActivityService
	mockRAG     *services.MockRAGIndexService
	mockDisp    *services.MockDispatchService
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		mockGitHub:  &github.MockGitHubClient{},
		mockRepos:   &services.MockRepositoriesService{},
		mockAcc:     &services.MockAccountsService{},
		mockReviews: &services.MockReviewsService{},
		mockCommits: &services.MockCommitActivityService{},
		mockRAG:     &services.MockRAGIndexService{},
		mockDisp:    &services.MockDispatchService{},
	}
	useCase := repositories.NewRepositoriesUseCase(
		f.mockGitHub, f.mockRepos, f.mockAcc, f.mockRAG, f.mockDisp)
	apiHandler := NewDashboardAPIHandler(useCase, f.mockRepos, f.mockReviews, f.mockCommits)
	f.httpHandler = NewDashboardHTTPHandler(apiHandler)
	return f
}

func authenticatedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	user := &models.User{ID: "u_test123", AuthProvider: "clerk", AuthProviderID: "user_ext123"}
	return req.WithContext(appctx.SetUser(req.Context(), user))
}

func TestHandleUserAuthenticate(t *testing.T) {
	t.Run("Returns the authenticated user", func(t *testing.T) {
		fixture := newDashboardFixture()

		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleUserAuthenticate(rec, authenticatedRequest("POST", "/users/authenticate", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "u_test123")
	})

	t.Run("Missing user yields 401", func(t *testing.T) {
		fixture := newDashboardFixture()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/users/authenticate", nil)
		fixture.httpHandler.HandleUserAuthenticate(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleListReviews(t *testing.T) {
	t.Run("Returns the user's reviews", func(t *testing.T) {
		fixture := newDashboardFixture()
		reviews := []*models.Review{
			{
				ID:           "rv_one",
				RepositoryID: "repo_abc123",
				PRNumber:     42,
				PRTitle:      "Add widgets",
				Status:       models.ReviewStatusCompleted,
				CreatedAt:    time.Now(),
			},
		}
		fixture.mockReviews.On("GetReviewsByUserID", mock.Anything, "u_test123", 20).
			Return(reviews, nil)

		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleListReviews(rec, authenticatedRequest("GET", "/reviews", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "rv_one")
		fixture.mockReviews.AssertExpectations(t)
	})

	t.Run("Limit query parameter is honored", func(t *testing.T) {
		fixture := newDashboardFixture()
		fixture.mockReviews.On("GetReviewsByUserID", mock.Anything, "u_test123", 5).
			Return([]*models.Review{}, nil)

		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleListReviews(rec, authenticatedRequest("GET", "/reviews?limit=5", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		fixture.mockReviews.AssertExpectations(t)
	})

	t.Run("Service failure yields 500", func(t *testing.T) {
		fixture := newDashboardFixture()
		fixture.mockReviews.On("GetReviewsByUserID", mock.Anything, "u_test123", 20).
			Return(nil, fmt.Errorf("db down"))

		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleListReviews(rec, authenticatedRequest("GET", "/reviews", ""))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("Unauthenticated request yields 401", func(t *testing.T) {
		fixture := newDashboardFixture()

		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleListReviews(rec, httptest.NewRequest("GET", "/reviews", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleListCommitActivity(t *testing.T) {
	t.Run("Without repo filter returns recent activity", func(t *testing.T) {
		fixture := newDashboardFixture()
		fixture.mockCommits.On("GetRecentCommitActivity", mock.Anything, 20).
			Return([]*models.CommitActivity{{ID: "ca_one", CommitID: "abc123"}}, nil)

		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleListCommitActivity(rec, authenticatedRequest("GET", "/commits", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "abc123")
		fixture.mockCommits.AssertExpectations(t)
	})

	t.Run("Repo filter scopes the query", func(t *testing.T) {
		fixture := newDashboardFixture()
		fixture.mockCommits.On("GetRecentCommitActivityByRepo", mock.Anything, "acme/widgets", 10).
			Return([]*models.CommitActivity{}, nil)

		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleListCommitActivity(rec,
			authenticatedRequest("GET", "/commits?repo=acme/widgets&limit=10", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		fixture.mockCommits.AssertExpectations(t)
	})
}

func TestHandleConnectRepository(t *testing.T) {
	t.Run("Connects the repository", func(t *testing.T) {
		fixture := newDashboardFixture()
		fixture.mockAcc.On("GetAccountByUserAndProvider", mock.Anything, "u_test123", models.ProviderGitHub).
			Return(mo.Some(&models.Account{
				ID:          "acc_test123",
				UserID:      "u_test123",
				ProviderID:  models.ProviderGitHub,
				AccessToken: "gho_token",
			}), nil)
		fixture.mockGitHub.On("CreateWebhook", mock.Anything, "gho_token", "acme", "widgets").
			Return(&clients.Webhook{ID: 99}, nil)
		fixture.mockRepos.On("CreateRepository", mock.Anything, mock.Anything).Return(nil)
		fixture.mockDisp.On("EnqueueMessage", mock.Anything, models.MessageRepositoryConnected,
			mock.Anything, (*string)(nil)).
			Return(true, nil)

		body := `{"github_id": 42, "owner": "acme", "name": "widgets", "url": "https://github.com/acme/widgets"}`
		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleConnectRepository(rec, authenticatedRequest("POST", "/repositories", body))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"acme/widgets"`)
		fixture.mockGitHub.AssertExpectations(t)
		fixture.mockRepos.AssertExpectations(t)
	})

	t.Run("Invalid body yields 400", func(t *testing.T) {
		fixture := newDashboardFixture()

		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleConnectRepository(rec,
			authenticatedRequest("POST", "/repositories", "{not json"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing owner or name yields 400", func(t *testing.T) {
		fixture := newDashboardFixture()

		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleConnectRepository(rec,
			authenticatedRequest("POST", "/repositories", `{"github_id": 42, "owner": "", "name": "widgets"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleDisconnectRepository(t *testing.T) {
	t.Run("Disconnects the repository", func(t *testing.T) {
		fixture := newDashboardFixture()
		fixture.mockRepos.On("GetRepositoryByID", mock.Anything, "repo_abc123").
			Return(mo.Some(&models.Repository{
				ID:       "repo_abc123",
				UserID:   "u_test123",
				Owner:    "acme",
				Name:     "widgets",
				FullName: "acme/widgets",
			}), nil)
		fixture.mockAcc.On("GetAccountByUserAndProvider", mock.Anything, "u_test123", models.ProviderGitHub).
			Return(mo.Some(&models.Account{
				ID:          "acc_test123",
				UserID:      "u_test123",
				ProviderID:  models.ProviderGitHub,
				AccessToken: "gho_token",
			}), nil)
		fixture.mockGitHub.On("DeleteWebhook", mock.Anything, "gho_token", "acme", "widgets").
			Return(true)
		fixture.mockRepos.On("DeleteRepository", mock.Anything, "repo_abc123", "u_test123").
			Return(nil)
		fixture.mockRAG.On("DeleteRepositoryIndex", mock.Anything, "repo_abc123").Return(nil)

		req := mux.SetURLVars(
			authenticatedRequest("DELETE", "/repositories/repo_abc123", ""),
			map[string]string{"id": "repo_abc123"})
		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleDisconnectRepository(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		fixture.mockRepos.AssertExpectations(t)
		fixture.mockRAG.AssertExpectations(t)
	})

	t.Run("Unknown repository yields 404", func(t *testing.T) {
		fixture := newDashboardFixture()
		fixture.mockRepos.On("GetRepositoryByID", mock.Anything, "repo_missing").
			Return(mo.None[*models.Repository](), nil)

		req := mux.SetURLVars(
			authenticatedRequest("DELETE", "/repositories/repo_missing", ""),
			map[string]string{"id": "repo_missing"})
		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleDisconnectRepository(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		fixture.mockRepos.AssertNotCalled(t, "DeleteRepository", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Storage failure yields 500", func(t *testing.T) {
		fixture := newDashboardFixture()
		fixture.mockRepos.On("GetRepositoryByID", mock.Anything, "repo_abc123").
			Return(mo.None[*models.Repository](), fmt.Errorf("db down"))

		req := mux.SetURLVars(
			authenticatedRequest("DELETE", "/repositories/repo_abc123", ""),
			map[string]string{"id": "repo_abc123"})
		rec := httptest.NewRecorder()
		fixture.httpHandler.HandleDisconnectRepository(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
