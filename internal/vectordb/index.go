package vectordb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/dcamposl/ragdocs/internal/chunker"
	"github.com/dcamposl/ragdocs/internal/embeddings"
)

// ErrNotFound is returned when a named collection does not exist.
var ErrNotFound = errors.New("collection not found")

// collectionNamePattern restricts names to a filesystem-safe alphabet,
// since each collection maps to a directory under the data dir.
var collectionNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateCollectionName rejects names outside [A-Za-z0-9_-].
func ValidateCollectionName(name string) error {
	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("invalid collection name %q: only letters, digits, underscore and hyphen are allowed", name)
	}
	return nil
}

// Index manages named vector collections, each persisted as its own
// chromem database under the data directory.
type Index struct {
	dataDir  string
	embedder embeddings.Embedder
	// cooldown between embedding batches during CreateOrReplace.
	cooldown time.Duration

	mu      sync.Mutex
	handles map[string]*handle
}

type handle struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewIndex returns an Index rooted at dataDir. cooldown is the pause
// between embedding batches during writes; it never delays reads.
func NewIndex(dataDir string, embedder embeddings.Embedder, cooldown time.Duration) *Index {
	return &Index{
		dataDir:  dataDir,
		embedder: embedder,
		cooldown: cooldown,
		handles:  map[string]*handle{},
	}
}

func (ix *Index) collectionDir(name string) string {
	return filepath.Join(ix.dataDir, name)
}

// open returns a cached handle for the collection, loading it from disk
// on first use. Returns ErrNotFound when the collection does not exist.
func (ix *Index) open(name string) (*handle, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if h, ok := ix.handles[name]; ok {
		return h, nil
	}

	dir := ix.collectionDir(name)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("collection %q: %w", name, ErrNotFound)
	}

	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("opening collection %q: %w", name, err)
	}
	col := db.GetCollection(name, embeddings.ToChromemFunc(ix.embedder))
	if col == nil {
		return nil, fmt.Errorf("collection %q: %w", name, ErrNotFound)
	}

	h := &handle{db: db, collection: col}
	ix.handles[name] = h
	return h, nil
}

// CreateOrReplace rebuilds the named collection from the given chunks.
// The existing collection directory is deleted first. Chunks are
// embedded in fixed-size batches with a cooldown between batches so
// provider rate ceilings are respected; the cooldown never runs after
// the final batch. A failure mid-way returns an error naming how much
// of the collection was written. Returns the number of chunks stored.
func (ix *Index) CreateOrReplace(ctx context.Context, name string, chunks []chunker.Chunk, batchSize int) (int, error) {
	if err := ValidateCollectionName(name); err != nil {
		return 0, err
	}
	if batchSize <= 0 {
		batchSize = 90
	}

	dir := ix.collectionDir(name)

	ix.mu.Lock()
	delete(ix.handles, name)
	if err := os.RemoveAll(dir); err != nil {
		ix.mu.Unlock()
		return 0, fmt.Errorf("removing old collection %q: %w", name, err)
	}
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		ix.mu.Unlock()
		return 0, fmt.Errorf("creating collection %q: %w", name, err)
	}
	col, err := db.GetOrCreateCollection(name, nil, embeddings.ToChromemFunc(ix.embedder))
	if err != nil {
		ix.mu.Unlock()
		return 0, fmt.Errorf("creating collection %q: %w", name, err)
	}
	ix.handles[name] = &handle{db: db, collection: col}
	ix.mu.Unlock()

	stored := 0
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vectors, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return stored, fmt.Errorf("embedding batch %d-%d: collection %q holds %d of %d chunks: %w",
				start, end, name, stored, len(chunks), err)
		}

		docs := make([]chromem.Document, len(batch))
		for i, c := range batch {
			docs[i] = chromem.Document{
				ID:        fmt.Sprintf("%s_%s_%d", c.Metadata.SourceFile, name, c.Metadata.ChunkIndex),
				Content:   c.Content,
				Embedding: vectors[i],
				Metadata:  metadataToMap(c.Metadata),
			}
		}
		if err := col.AddDocuments(ctx, docs, 1); err != nil {
			return stored, fmt.Errorf("storing batch %d-%d: collection %q holds %d of %d chunks: %w",
				start, end, name, stored, len(chunks), err)
		}
		stored += len(batch)

		// Pause between batches only; the last batch never waits.
		if end < len(chunks) && ix.cooldown > 0 {
			select {
			case <-ctx.Done():
				return stored, fmt.Errorf("cooldown interrupted: collection %q holds %d of %d chunks: %w",
					name, stored, len(chunks), ctx.Err())
			case <-time.After(ix.cooldown):
			}
		}
	}
	return stored, nil
}

// Search returns up to k fragments most similar to the query, best
// first. Ordering is deterministic for a fixed collection and query.
// Returns ErrNotFound when the collection does not exist.
func (ix *Index) Search(ctx context.Context, name, query string, k int) ([]SearchResult, error) {
	if err := ValidateCollectionName(name); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}

	h, err := ix.open(name)
	if err != nil {
		return nil, err
	}

	// chromem requires nResults <= collection size.
	count := h.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := h.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %q: %w", name, err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Fragment: Fragment{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

// Describe reports whether the collection exists and how many chunks it
// holds.
func (ix *Index) Describe(name string) (exists bool, count int, err error) {
	if err := ValidateCollectionName(name); err != nil {
		return false, 0, err
	}
	h, err := ix.open(name)
	if errors.Is(err, ErrNotFound) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, h.collection.Count(), nil
}

// Delete removes the collection and its directory. Deleting a missing
// collection is a no-op.
func (ix *Index) Delete(name string) error {
	if err := ValidateCollectionName(name); err != nil {
		return err
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.handles, name)
	return os.RemoveAll(ix.collectionDir(name))
}
