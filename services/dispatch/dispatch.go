package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"linequeue/core"
	"linequeue/db"
	"linequeue/models"
	"linequeue/services"
)

const (
	// MaxAttempts is how many times a message is processed before it is
	// marked failed for good.
	MaxAttempts = 3

	// StaleAfterMinutes is how long a message may sit in processing before
	// the requeue pass assumes its consumer died.
	StaleAfterMinutes = 10
)

// DispatchService is a durable at-least-once message queue backed by
// Postgres. Producers enqueue named messages, consumers register handlers,
// and a background loop claims and processes messages one at a time.
type DispatchService struct {
	queuedMessagesRepo *db.PostgresQueuedMessagesRepository

	mu       sync.RWMutex
	handlers map[string]services.MessageHandler
}

func NewDispatchService(repo *db.PostgresQueuedMessagesRepository) *DispatchService {
	return &DispatchService{
		queuedMessagesRepo: repo,
		handlers:           make(map[string]services.MessageHandler),
	}
}

// EnqueueMessage serializes the payload and inserts a queued message. When a
// dedup key is given and an equivalent message already exists, nothing is
// inserted and false is returned.
func (s *DispatchService) EnqueueMessage(
	ctx context.Context,
	name string,
	payload any,
	dedupKey *string,
) (bool, error) {
	log.Printf("📋 Starting to enqueue message: %s", name)

	if name == "" {
		return false, fmt.Errorf("message name cannot be empty")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("failed to marshal message payload: %w", err)
	}

	msg := &models.QueuedMessage{
		ID:        core.NewID("qm"),
		MessageID: uuid.New().String(),
		Name:      name,
		DedupKey:  dedupKey,
		Payload:   data,
		Status:    models.QueuedMessageStatusQueued,
	}
	inserted, err := s.queuedMessagesRepo.EnqueueMessage(ctx, msg)
	if err != nil {
		return false, fmt.Errorf("failed to enqueue message: %w", err)
	}
	if !inserted {
		log.Printf("📨 Message %s deduplicated - equivalent message already queued", name)
		return false, nil
	}

	log.Printf("📋 Completed successfully - enqueued message %s with ID: %s", name, msg.ID)
	return true, nil
}

// RegisterHandler binds a handler to a message name. Must be called before
// the processing loop starts; later registrations replace earlier ones.
func (s *DispatchService) RegisterHandler(name string, handler services.MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = handler
}

// ProcessQueuedMessages drains the queue, claiming and handling messages until
// none are left. Designed to be called repeatedly from a ticker loop.
func (s *DispatchService) ProcessQueuedMessages(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		maybeMsg, err := s.queuedMessagesRepo.ClaimNextMessage(ctx)
		if err != nil {
			return fmt.Errorf("failed to claim next message: %w", err)
		}
		msg, ok := maybeMsg.Get()
		if !ok {
			return nil
		}

		s.processMessage(ctx, msg)
	}
}

func (s *DispatchService) processMessage(ctx context.Context, msg *models.QueuedMessage) {
	log.Printf("📨 Processing message %s (%s), attempt %d", msg.ID, msg.Name, msg.Attempts)

	s.mu.RLock()
	handler, ok := s.handlers[msg.Name]
	s.mu.RUnlock()
	if !ok {
		log.Printf("❌ No handler registered for message name: %s", msg.Name)
		s.updateStatus(ctx, msg.ID, models.QueuedMessageStatusFailed)
		return
	}

	if err := handler(ctx, msg); err != nil {
		log.Printf("❌ Handler for message %s (%s) failed: %v", msg.ID, msg.Name, err)
		if msg.Attempts >= MaxAttempts {
			log.Printf("❌ Message %s exhausted %d attempts, marking failed", msg.ID, msg.Attempts)
			s.updateStatus(ctx, msg.ID, models.QueuedMessageStatusFailed)
		} else {
			s.updateStatus(ctx, msg.ID, models.QueuedMessageStatusQueued)
		}
		return
	}

	s.updateStatus(ctx, msg.ID, models.QueuedMessageStatusCompleted)
	log.Printf("✅ Message %s (%s) processed successfully", msg.ID, msg.Name)
}

func (s *DispatchService) updateStatus(ctx context.Context, id string, status models.QueuedMessageStatus) {
	if err := s.queuedMessagesRepo.UpdateMessageStatus(ctx, id, status); err != nil {
		log.Printf("❌ Failed to update message %s status to %s: %v", id, status, err)
	}
}

// RequeueStaleMessages recovers messages stuck in processing after a consumer
// crash. Messages past the attempt cap are failed instead of retried.
func (s *DispatchService) RequeueStaleMessages(ctx context.Context) error {
	requeued, err := s.queuedMessagesRepo.RequeueStaleMessages(ctx, StaleAfterMinutes, MaxAttempts)
	if err != nil {
		return fmt.Errorf("failed to requeue stale messages: %w", err)
	}
	if requeued > 0 {
		log.Printf("⚠️ Requeued %d stale messages", requeued)
	}
	return nil
}
