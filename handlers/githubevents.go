package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"linequeue/models"
	"linequeue/usecases/githubevents"
)

// GitHubEventsHandler is the webhook receiver. GitHub retries deliveries on
// non-2xx responses, so processing failures are logged and acknowledged; only
// an unreadable or unparseable delivery earns a 500.
type GitHubEventsHandler struct {
	webhookSecret       string
	githubEventsUseCase *githubevents.GitHubEventsUseCase
}

func NewGitHubEventsHandler(
	webhookSecret string,
	githubEventsUseCase *githubevents.GitHubEventsUseCase,
) *GitHubEventsHandler {
	return &GitHubEventsHandler{
		webhookSecret:       webhookSecret,
		githubEventsUseCase: githubEventsUseCase,
	}
}

// verifyGitHubSignature checks the X-Hub-Signature-256 HMAC when a webhook
// secret is configured. Without a secret, deliveries are accepted as-is.
func (h *GitHubEventsHandler) verifyGitHubSignature(r *http.Request, body []byte) error {
	if h.webhookSecret == "" {
		return nil
	}

	signature := r.Header.Get("X-Hub-Signature-256")
	if signature == "" {
		return fmt.Errorf("missing signature header")
	}

	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSignature := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

func (h *GitHubEventsHandler) HandleGitHubEvent(w http.ResponseWriter, r *http.Request) {
	eventType := r.Header.Get("X-GitHub-Event")
	log.Printf("📨 GitHub event received from %s: %s", r.RemoteAddr, eventType)

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"message": "Server Error, Sorry!"})
		return
	}

	if err := h.verifyGitHubSignature(r, bodyBytes); err != nil {
		log.Printf("❌ GitHub signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if eventType == models.GitHubEventPing {
		log.Printf("🔐 GitHub webhook ping received")
		h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "pong"})
		return
	}

	switch eventType {
	case models.GitHubEventPush:
		var event models.GitHubPushEvent
		if err := json.Unmarshal(bodyBytes, &event); err != nil {
			log.Printf("❌ Failed to parse push event: %v", err)
			h.writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"message": "Server Error, Sorry!"})
			return
		}
		if err := h.githubEventsUseCase.ProcessPushEvent(r.Context(), event); err != nil {
			log.Printf("❌ Failed to process push event: %v", err)
		}

	case models.GitHubEventPullRequest:
		var event models.GitHubPullRequestEvent
		if err := json.Unmarshal(bodyBytes, &event); err != nil {
			log.Printf("❌ Failed to parse pull_request event: %v", err)
			h.writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"message": "Server Error, Sorry!"})
			return
		}
		if err := h.githubEventsUseCase.ProcessPullRequestEvent(r.Context(), event); err != nil {
			log.Printf("❌ Failed to process pull_request event: %v", err)
		}

	case models.GitHubEventIssues:
		var event models.GitHubIssuesEvent
		if err := json.Unmarshal(bodyBytes, &event); err != nil {
			log.Printf("❌ Failed to parse issues event: %v", err)
			h.writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"message": "Server Error, Sorry!"})
			return
		}
		if err := h.githubEventsUseCase.ProcessIssuesEvent(r.Context(), event); err != nil {
			log.Printf("❌ Failed to process issues event: %v", err)
		}

	default:
		log.Printf("📨 Ignoring unhandled GitHub event type: %s", eventType)
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Event Processed"})
}

func (h *GitHubEventsHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
