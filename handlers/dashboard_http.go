package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"linequeue/appctx"
	"linequeue/core"
	"linequeue/middleware"
)

type DashboardHTTPHandler struct {
	handler *DashboardAPIHandler
}

func NewDashboardHTTPHandler(handler *DashboardAPIHandler) *DashboardHTTPHandler {
	return &DashboardHTTPHandler{
		handler: handler,
	}
}

type ConnectRepositoryRequest struct {
	GitHubID int64  `json:"github_id"`
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

type AddCollaboratorRequest struct {
	Username   string `json:"username"`
	Permission string `json:"permission"`
}

func (h *DashboardHTTPHandler) HandleUserAuthenticate(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 User authentication request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	log.Printf("✅ User data retrieved from context: %s", user.ID)
	h.writeJSONResponse(w, http.StatusOK, user)
}

func (h *DashboardHTTPHandler) HandleListConnectedRepositories(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List connected repositories request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	repos, err := h.handler.ListConnectedRepositories(r.Context(), user)
	if err != nil {
		http.Error(w, "failed to list repositories", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, repos)
}

func (h *DashboardHTTPHandler) HandleListAvailableRepositories(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List available repositories request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 30)

	repos, err := h.handler.ListAvailableRepositories(r.Context(), user, page, perPage)
	if err != nil {
		http.Error(w, "failed to list github repositories", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, repos)
}

func (h *DashboardHTTPHandler) HandleConnectRepository(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Connect repository request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req ConnectRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Owner == "" || req.Name == "" {
		http.Error(w, "owner and name are required", http.StatusBadRequest)
		return
	}

	repo, err := h.handler.ConnectRepository(r.Context(), user, req.GitHubID, req.Owner, req.Name, req.URL)
	if err != nil {
		http.Error(w, "failed to connect repository", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, repo)
}

func (h *DashboardHTTPHandler) HandleDisconnectRepository(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Disconnect repository request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	repositoryID := vars["id"]
	if repositoryID == "" {
		http.Error(w, "repository id is required", http.StatusBadRequest)
		return
	}

	if err := h.handler.DisconnectRepository(r.Context(), user, repositoryID); err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "repository not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to disconnect repository", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DashboardHTTPHandler) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List reviews request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	limit := queryInt(r, "limit", 20)

	reviews, err := h.handler.ListReviews(r.Context(), user, limit)
	if err != nil {
		http.Error(w, "failed to list reviews", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, reviews)
}

func (h *DashboardHTTPHandler) HandleListRepositoryReviews(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List repository reviews request received from %s", r.RemoteAddr)

	if _, ok := appctx.GetUser(r.Context()); !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	repositoryID := vars["id"]
	limit := queryInt(r, "limit", 20)

	reviews, err := h.handler.ListRepositoryReviews(r.Context(), repositoryID, limit)
	if err != nil {
		http.Error(w, "failed to list repository reviews", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, reviews)
}

func (h *DashboardHTTPHandler) HandleListCommitActivity(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List commit activity request received from %s", r.RemoteAddr)

	if _, ok := appctx.GetUser(r.Context()); !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	repoFullName := r.URL.Query().Get("repo")
	limit := queryInt(r, "limit", 20)

	activities, err := h.handler.ListCommitActivity(r.Context(), repoFullName, limit)
	if err != nil {
		http.Error(w, "failed to list commit activity", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, activities)
}

func (h *DashboardHTTPHandler) HandleGetFolderStructure(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get folder structure request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	repositoryID := vars["id"]
	branch := r.URL.Query().Get("branch")
	if branch == "" {
		branch = "main"
	}

	structure, err := h.handler.GetFolderStructure(r.Context(), user, repositoryID, branch)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "repository not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to get folder structure", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, structure)
}

func (h *DashboardHTTPHandler) HandleGetCollaborators(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get collaborators request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	repositoryID := vars["id"]

	stats, err := h.handler.GetCollaborators(r.Context(), user, repositoryID)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "repository not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to get collaborators", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, stats)
}

func (h *DashboardHTTPHandler) HandleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Add collaborator request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	repositoryID := vars["id"]

	var req AddCollaboratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}
	if req.Permission == "" {
		req.Permission = "push"
	}

	result, err := h.handler.AddCollaborator(r.Context(), user, repositoryID, req.Username, req.Permission)
	if err != nil {
		http.Error(w, "failed to add collaborator", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *DashboardHTTPHandler) HandleRemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Remove collaborator request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	repositoryID := vars["id"]
	username := vars["username"]

	result, err := h.handler.RemoveCollaborator(r.Context(), user, repositoryID, username)
	if err != nil {
		http.Error(w, "failed to remove collaborator", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *DashboardHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.ClerkAuthMiddleware) {
	log.Printf("🚀 Registering dashboard API endpoints")

	router.HandleFunc("/users/authenticate", authMiddleware.WithAuth(h.HandleUserAuthenticate)).Methods("POST")
	log.Printf("✅ POST /users/authenticate endpoint registered")

	router.HandleFunc("/github/repositories", authMiddleware.WithAuth(h.HandleListAvailableRepositories)).
		Methods("GET")
	log.Printf("✅ GET /github/repositories endpoint registered")

	router.HandleFunc("/repositories", authMiddleware.WithAuth(h.HandleListConnectedRepositories)).Methods("GET")
	log.Printf("✅ GET /repositories endpoint registered")

	router.HandleFunc("/repositories", authMiddleware.WithAuth(h.HandleConnectRepository)).Methods("POST")
	log.Printf("✅ POST /repositories endpoint registered")

	router.HandleFunc("/repositories/{id}", authMiddleware.WithAuth(h.HandleDisconnectRepository)).
		Methods("DELETE")
	log.Printf("✅ DELETE /repositories/{id} endpoint registered")

	router.HandleFunc("/repositories/{id}/reviews", authMiddleware.WithAuth(h.HandleListRepositoryReviews)).
		Methods("GET")
	log.Printf("✅ GET /repositories/{id}/reviews endpoint registered")

	router.HandleFunc("/repositories/{id}/structure", authMiddleware.WithAuth(h.HandleGetFolderStructure)).
		Methods("GET")
	log.Printf("✅ GET /repositories/{id}/structure endpoint registered")

	router.HandleFunc("/repositories/{id}/collaborators", authMiddleware.WithAuth(h.HandleGetCollaborators)).
		Methods("GET")
	log.Printf("✅ GET /repositories/{id}/collaborators endpoint registered")

	router.HandleFunc("/repositories/{id}/collaborators", authMiddleware.WithAuth(h.HandleAddCollaborator)).
		Methods("POST")
	log.Printf("✅ POST /repositories/{id}/collaborators endpoint registered")

	router.HandleFunc("/repositories/{id}/collaborators/{username}", authMiddleware.WithAuth(h.HandleRemoveCollaborator)).
		Methods("DELETE")
	log.Printf("✅ DELETE /repositories/{id}/collaborators/{username} endpoint registered")

	router.HandleFunc("/reviews", authMiddleware.WithAuth(h.HandleListReviews)).Methods("GET")
	log.Printf("✅ GET /reviews endpoint registered")

	router.HandleFunc("/commits", authMiddleware.WithAuth(h.HandleListCommitActivity)).Methods("GET")
	log.Printf("✅ GET /commits endpoint registered")

	log.Printf("✅ All dashboard API endpoints registered successfully")
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func (h *DashboardHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
