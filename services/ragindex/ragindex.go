package ragindex

import (
	"context"
	"fmt"
	"log"

	"linequeue/clients"
	"linequeue/utils"
)

const (
	// MaxChunkContentLength caps the stored chunk text, path prefix
	// included. Embedding models truncate long inputs anyway, so anything
	// past this adds cost without adding signal.
	MaxChunkContentLength = 8000

	// IndexBatchSize bounds how many files are embedded concurrently.
	IndexBatchSize = 100

	// DefaultTopK is the number of context chunks retrieved per query.
	DefaultTopK = 5
)

type RAGIndexService struct {
	store    VectorStore
	embedder clients.Embedder
}

func NewRAGIndexService(store VectorStore, embedder clients.Embedder) *RAGIndexService {
	return &RAGIndexService{store: store, embedder: embedder}
}

// IndexCodebase embeds and stores the given files for one repository. Files
// are processed in batches, and a file that fails to embed or store is logged
// and skipped so one bad file never aborts the whole index. Returns the
// number of files actually indexed.
func (s *RAGIndexService) IndexCodebase(
	ctx context.Context,
	repositoryID string,
	files []clients.RepoFile,
) (int, error) {
	log.Printf("📋 Starting to index %d files for repository: %s", len(files), repositoryID)

	if repositoryID == "" {
		return 0, fmt.Errorf("repository ID cannot be empty")
	}

	indexed := 0
	for start := 0; start < len(files); start += IndexBatchSize {
		end := start + IndexBatchSize
		if end > len(files) {
			end = len(files)
		}

		for _, file := range files[start:end] {
			if err := s.indexFile(ctx, repositoryID, file); err != nil {
				log.Printf("⚠️ Failed to index file %s: %v", file.Path, err)
				continue
			}
			indexed++
		}

		log.Printf("📋 Indexed batch %d-%d of %d files", start, end, len(files))
	}

	log.Printf("📋 Completed successfully - indexed %d/%d files for repository: %s",
		indexed, len(files), repositoryID)
	return indexed, nil
}

func (s *RAGIndexService) indexFile(ctx context.Context, repositoryID string, file clients.RepoFile) error {
	text := fmt.Sprintf("File %s:\n\n%s", file.Path, file.Content)
	if len(text) > MaxChunkContentLength {
		text = text[:MaxChunkContentLength]
	}

	embedding, err := s.embedder.EmbedDocument(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed file: %w", err)
	}

	chunk := &Chunk{
		ID:        fmt.Sprintf("%s-%s", repositoryID, utils.SanitizePath(file.Path)),
		RepoID:    repositoryID,
		Path:      file.Path,
		Text:      text,
		Embedding: embedding,
	}
	if err := s.store.StoreChunk(ctx, chunk); err != nil {
		return fmt.Errorf("failed to store chunk: %w", err)
	}

	return nil
}

// RetrieveContext embeds the query and returns the text of the closest chunks
// from the given repository's index.
func (s *RAGIndexService) RetrieveContext(
	ctx context.Context,
	repositoryID, query string,
	topK int,
) ([]string, error) {
	log.Printf("📋 Starting to retrieve context for repository: %s", repositoryID)

	if repositoryID == "" {
		return nil, fmt.Errorf("repository ID cannot be empty")
	}
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := s.store.FindSimilar(ctx, repositoryID, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar chunks: %w", err)
	}

	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Text == "" {
			continue
		}
		texts = append(texts, chunk.Text)
	}

	log.Printf("📋 Completed successfully - retrieved %d context chunks", len(texts))
	return texts, nil
}

// DeleteRepositoryIndex drops every indexed chunk for a repository. Called
// when the repository is disconnected from the dashboard.
func (s *RAGIndexService) DeleteRepositoryIndex(ctx context.Context, repositoryID string) error {
	log.Printf("📋 Starting to delete index for repository: %s", repositoryID)

	if repositoryID == "" {
		return fmt.Errorf("repository ID cannot be empty")
	}

	if err := s.store.DeleteByRepo(ctx, repositoryID); err != nil {
		return fmt.Errorf("failed to delete repository index: %w", err)
	}

	log.Printf("📋 Completed successfully - deleted index for repository: %s", repositoryID)
	return nil
}
