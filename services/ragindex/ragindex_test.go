package ragindex

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linequeue/clients"
	"linequeue/clients/vertex"
)

// fakeVectorStore is an in-memory VectorStore for exercising the service
// without sqlite.
type fakeVectorStore struct {
	chunks     []*Chunk
	storeErr   error
	findResult []*Chunk
	findErr    error
	lastFind   struct {
		repoID string
		limit  int
	}
	deletedRepos []string
}

func (f *fakeVectorStore) StoreChunk(ctx context.Context, chunk *Chunk) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.chunks = append(f.chunks, chunk)
	return nil
}

func (f *fakeVectorStore) FindSimilar(
	ctx context.Context,
	repoID string,
	embedding []float32,
	limit int,
) ([]*Chunk, error) {
	f.lastFind.repoID = repoID
	f.lastFind.limit = limit
	return f.findResult, f.findErr
}

func (f *fakeVectorStore) DeleteByRepo(ctx context.Context, repoID string) error {
	f.deletedRepos = append(f.deletedRepos, repoID)
	return nil
}

func (f *fakeVectorStore) Close() error { return nil }

// IndexCodebase Tests
func TestIndexCodebase(t *testing.T) {
	ctx := context.Background()
	embedding := []float32{0.1, 0.2, 0.3}

	t.Run("Embeds and stores each file", func(t *testing.T) {
		store := &fakeVectorStore{}
		embedder := &vertex.MockEmbedder{}

		embedder.On("EmbedDocument", ctx, "File main.go:\n\npackage main").
			Return(embedding, nil)
		embedder.On("EmbedDocument", ctx, "File internal/widget/widget.go:\n\ntype Widget struct{}").
			Return(embedding, nil)

		service := NewRAGIndexService(store, embedder)
		indexed, err := service.IndexCodebase(ctx, "repo_abc123", []clients.RepoFile{
			{Path: "main.go", Content: "package main"},
			{Path: "internal/widget/widget.go", Content: "type Widget struct{}"},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, indexed)
		require.Len(t, store.chunks, 2)
		assert.Equal(t, "repo_abc123-main.go", store.chunks[0].ID)
		assert.Equal(t, "repo_abc123-internal_widget_widget.go", store.chunks[1].ID)
		assert.Equal(t, "repo_abc123", store.chunks[0].RepoID)
		assert.Equal(t, embedding, store.chunks[0].Embedding)
		embedder.AssertExpectations(t)
	})

	t.Run("Long files are truncated before embedding", func(t *testing.T) {
		store := &fakeVectorStore{}
		embedder := &vertex.MockEmbedder{}

		content := strings.Repeat("x", MaxChunkContentLength+500)
		full := fmt.Sprintf("File big.go:\n\n%s", content)
		expected := full[:MaxChunkContentLength]
		embedder.On("EmbedDocument", ctx, expected).Return(embedding, nil)

		service := NewRAGIndexService(store, embedder)
		indexed, err := service.IndexCodebase(ctx, "repo_abc123", []clients.RepoFile{
			{Path: "big.go", Content: content},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, indexed)
		require.Len(t, store.chunks, 1)
		assert.Equal(t, expected, store.chunks[0].Text)
		assert.LessOrEqual(t, len(store.chunks[0].Text), MaxChunkContentLength)
		assert.True(t, strings.HasPrefix(store.chunks[0].Text, "File big.go:\n\n"))
		embedder.AssertExpectations(t)
	})

	t.Run("One failing file does not abort the rest", func(t *testing.T) {
		store := &fakeVectorStore{}
		embedder := &vertex.MockEmbedder{}

		embedder.On("EmbedDocument", ctx, "File bad.go:\n\noops").
			Return(nil, fmt.Errorf("model overloaded"))
		embedder.On("EmbedDocument", ctx, "File good.go:\n\npackage main").
			Return(embedding, nil)

		service := NewRAGIndexService(store, embedder)
		indexed, err := service.IndexCodebase(ctx, "repo_abc123", []clients.RepoFile{
			{Path: "bad.go", Content: "oops"},
			{Path: "good.go", Content: "package main"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, indexed)
		require.Len(t, store.chunks, 1)
		assert.Equal(t, "good.go", store.chunks[0].Path)
	})

	t.Run("Empty repository ID is rejected", func(t *testing.T) {
		service := NewRAGIndexService(&fakeVectorStore{}, &vertex.MockEmbedder{})

		_, err := service.IndexCodebase(ctx, "", []clients.RepoFile{{Path: "main.go"}})

		assert.Error(t, err)
	})
}

// RetrieveContext Tests
func TestRetrieveContext(t *testing.T) {
	ctx := context.Background()
	embedding := []float32{0.1, 0.2, 0.3}

	t.Run("Returns chunk texts in similarity order", func(t *testing.T) {
		store := &fakeVectorStore{
			findResult: []*Chunk{
				{ID: "repo_abc123-main.go", Text: "File main.go:\n\npackage main", Distance: 0.1},
				{ID: "repo_abc123-widget.go", Text: "File widget.go:\n\ntype Widget struct{}", Distance: 0.4},
			},
		}
		embedder := &vertex.MockEmbedder{}
		embedder.On("EmbedQuery", ctx, "diff --git a/main.go").Return(embedding, nil)

		service := NewRAGIndexService(store, embedder)
		texts, err := service.RetrieveContext(ctx, "repo_abc123", "diff --git a/main.go", 2)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"File main.go:\n\npackage main",
			"File widget.go:\n\ntype Widget struct{}",
		}, texts)
		assert.Equal(t, "repo_abc123", store.lastFind.repoID)
		assert.Equal(t, 2, store.lastFind.limit)
		embedder.AssertExpectations(t)
	})

	t.Run("Empty chunk texts are dropped", func(t *testing.T) {
		store := &fakeVectorStore{
			findResult: []*Chunk{
				{ID: "repo_abc123-main.go", Text: "File main.go:\n\npackage main", Distance: 0.1},
				{ID: "repo_abc123-empty.go", Text: "", Distance: 0.2},
				{ID: "repo_abc123-widget.go", Text: "File widget.go:\n\ntype Widget struct{}", Distance: 0.4},
			},
		}
		embedder := &vertex.MockEmbedder{}
		embedder.On("EmbedQuery", ctx, mock.Anything).Return(embedding, nil)

		service := NewRAGIndexService(store, embedder)
		texts, err := service.RetrieveContext(ctx, "repo_abc123", "query", 3)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"File main.go:\n\npackage main",
			"File widget.go:\n\ntype Widget struct{}",
		}, texts)
	})

	t.Run("Non-positive topK falls back to the default", func(t *testing.T) {
		store := &fakeVectorStore{}
		embedder := &vertex.MockEmbedder{}
		embedder.On("EmbedQuery", ctx, mock.Anything).Return(embedding, nil)

		service := NewRAGIndexService(store, embedder)
		_, err := service.RetrieveContext(ctx, "repo_abc123", "query", 0)

		require.NoError(t, err)
		assert.Equal(t, DefaultTopK, store.lastFind.limit)
	})

	t.Run("Empty query is rejected", func(t *testing.T) {
		service := NewRAGIndexService(&fakeVectorStore{}, &vertex.MockEmbedder{})

		_, err := service.RetrieveContext(ctx, "repo_abc123", "", 5)

		assert.Error(t, err)
	})

	t.Run("Embedding failure propagates", func(t *testing.T) {
		embedder := &vertex.MockEmbedder{}
		embedder.On("EmbedQuery", ctx, mock.Anything).
			Return(nil, fmt.Errorf("quota exceeded"))

		service := NewRAGIndexService(&fakeVectorStore{}, embedder)
		_, err := service.RetrieveContext(ctx, "repo_abc123", "query", 5)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to embed query")
	})
}

// DeleteRepositoryIndex Tests
func TestDeleteRepositoryIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("Drops the repository's chunks", func(t *testing.T) {
		store := &fakeVectorStore{}
		service := NewRAGIndexService(store, &vertex.MockEmbedder{})

		err := service.DeleteRepositoryIndex(ctx, "repo_abc123")

		assert.NoError(t, err)
		assert.Equal(t, []string{"repo_abc123"}, store.deletedRepos)
	})

	t.Run("Empty repository ID is rejected", func(t *testing.T) {
		service := NewRAGIndexService(&fakeVectorStore{}, &vertex.MockEmbedder{})

		err := service.DeleteRepositoryIndex(ctx, "")

		assert.Error(t, err)
	})
}
