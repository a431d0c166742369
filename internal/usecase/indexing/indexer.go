package indexing

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/vectorstore"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

const embedBatchSize = 32

// Indexer embeds transcript chunks and installs them in the vector store.
// Embedding is all-or-nothing per meeting: if any batch fails after retries
// the store is left untouched, so a previously indexed version of the
// meeting stays searchable.
type Indexer struct {
	embedder    ai.Embedder
	store       vectorstore.VectorStore
	pool        *ants.Pool
	maxAttempts int
	logger      *zap.Logger
}

func NewIndexer(embedder ai.Embedder, store vectorstore.VectorStore, pool *ants.Pool, maxAttempts int, logger *zap.Logger) *Indexer {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Indexer{
		embedder:    embedder,
		store:       store,
		pool:        pool,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Index embeds every chunk and atomically replaces the meeting's entry in
// the vector store. The input chunks are annotated with their embeddings.
func (idx *Indexer) Index(ctx context.Context, transcript *entities.NormalizedTranscript, chunks []*entities.Chunk) error {
	if len(chunks) == 0 {
		return apperrors.ErrInvalidChunking
	}

	batches := batchChunks(chunks, embedBatchSize)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, batch := range batches {
		batch := batch
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := idx.embedBatch(ctx, batch); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}
		if idx.pool != nil {
			if err := idx.pool.Submit(task); err != nil {
				// Pool saturated or closed, run inline.
				task()
			}
		} else {
			task()
		}
	}
	wg.Wait()

	if firstErr != nil {
		if idx.logger != nil {
			idx.logger.Error("embedding failed, index left unchanged",
				zap.String("meeting_id", transcript.MeetingID.String()),
				zap.Error(firstErr))
		}
		return firstErr
	}

	if err := idx.store.Replace(ctx, transcript.MeetingID, chunks); err != nil {
		return err
	}
	if idx.logger != nil {
		idx.logger.Info("indexed meeting",
			zap.String("meeting_id", transcript.MeetingID.String()),
			zap.Int("chunks", len(chunks)))
	}
	return nil
}

// embedBatch fills in the embeddings for one batch of chunks, retrying
// transient provider failures with exponential backoff.
func (idx *Indexer) embedBatch(ctx context.Context, batch []*entities.Chunk) error {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	var vectors [][]float32
	operation := func() error {
		var err error
		vectors, err = idx.embedder.EmbedTexts(ctx, texts)
		if err != nil && !apperrors.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(500*time.Millisecond),
			backoff.WithMaxInterval(10*time.Second),
		),
		uint64(idx.maxAttempts-1),
	), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return err
	}

	for i, c := range batch {
		c.Embedding = vectorstore.Normalize(vectors[i])
	}
	return nil
}

func batchChunks(chunks []*entities.Chunk, size int) [][]*entities.Chunk {
	var batches [][]*entities.Chunk
	for start := 0; start < len(chunks); start += size {
		end := start + size
		if end > len(chunks) {
			end = len(chunks)
		}
		batches = append(batches, chunks[start:end])
	}
	return batches
}
