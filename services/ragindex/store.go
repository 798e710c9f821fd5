package ragindex

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

// Chunk is one indexed piece of repository content with its embedding.
type Chunk struct {
	ID        string
	RepoID    string
	Path      string
	Text      string
	Embedding []float32
	Distance  float64
}

// VectorStore persists embedded chunks and answers nearest-neighbour queries
// scoped to a single repository.
type VectorStore interface {
	StoreChunk(ctx context.Context, chunk *Chunk) error
	FindSimilar(ctx context.Context, repoID string, embedding []float32, limit int) ([]*Chunk, error)
	DeleteByRepo(ctx context.Context, repoID string) error
	Close() error
}

type sqliteVectorStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteVectorStore opens (or creates) the vector database at path.
func NewSQLiteVectorStore(path string) (*sqliteVectorStore, error) {
	sqlite_vec.Auto()
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector database: %w", err)
	}

	store := &sqliteVectorStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}

	return store, nil
}

func (s *sqliteVectorStore) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		repo_id TEXT NOT NULL,
		path TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_chunks_repo_id ON chunks(repo_id)`,

		// Vector virtual table. The partition key keeps KNN queries within a
		// single repository's embeddings.
		`CREATE VIRTUAL TABLE IF NOT EXISTS vec_chunks USING vec0(
		embedding float[768] distance_metric=cosine,
		chunk_id TEXT,
		repo_id TEXT PARTITION KEY
		)`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to initialize table: %w", err)
		}
	}
	return nil
}

// StoreChunk upserts a chunk and its embedding. Re-indexing a file replaces
// the previous vector instead of accumulating duplicates.
func (s *sqliteVectorStore) StoreChunk(ctx context.Context, chunk *Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			log.Printf("⚠️ Failed to rollback vector store transaction: %v", err)
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO chunks (id, repo_id, path, text)
		 VALUES (?, ?, ?, ?)`,
		chunk.ID, chunk.RepoID, chunk.Path, chunk.Text)
	if err != nil {
		return fmt.Errorf("failed to store chunk: %w", err)
	}

	blob, err := sqlite_vec.SerializeFloat32(chunk.Embedding)
	if err != nil {
		return fmt.Errorf("failed to serialize embedding: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vec_chunks WHERE chunk_id = ?`, chunk.ID); err != nil {
		return fmt.Errorf("failed to replace embedding: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO vec_chunks (embedding, chunk_id, repo_id)
		 VALUES (?, ?, ?)`,
		blob, chunk.ID, chunk.RepoID)
	if err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindSimilar returns the chunks closest to the given embedding within one
// repository, nearest first.
func (s *sqliteVectorStore) FindSimilar(
	ctx context.Context,
	repoID string,
	embedding []float32,
	limit int,
) ([]*Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	blob, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize embedding: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.repo_id, c.path, c.text,
		        vec_distance_cosine(v.embedding, ?) as distance
		 FROM vec_chunks v
		 JOIN chunks c ON v.chunk_id = c.id
		 WHERE v.embedding MATCH ? AND k = ? AND v.repo_id = ?
		 ORDER BY distance ASC`,
		blob, blob, limit, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar chunks: %w", err)
	}
	defer rows.Close()

	var results []*Chunk
	for rows.Next() {
		var chunk Chunk
		if err := rows.Scan(&chunk.ID, &chunk.RepoID, &chunk.Path, &chunk.Text, &chunk.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, &chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}

// DeleteByRepo removes every chunk and embedding for a repository.
func (s *sqliteVectorStore) DeleteByRepo(ctx context.Context, repoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			log.Printf("⚠️ Failed to rollback vector store transaction: %v", err)
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vec_chunks WHERE repo_id = ?`, repoID); err != nil {
		return fmt.Errorf("failed to delete embeddings: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chunks WHERE repo_id = ?`, repoID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *sqliteVectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
