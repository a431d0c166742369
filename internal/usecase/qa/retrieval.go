package qa

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/vectorstore"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

// Retriever embeds a question and finds the most similar chunks of one
// meeting. An empty result set is a normal outcome, not an error: it means
// nothing in the meeting cleared the similarity threshold.
type Retriever struct {
	embedder  ai.Embedder
	store     vectorstore.VectorStore
	topK      int
	threshold float64
	logger    *zap.Logger
}

func NewRetriever(embedder ai.Embedder, store vectorstore.VectorStore, topK int, threshold float64, logger *zap.Logger) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		embedder:  embedder,
		store:     store,
		topK:      topK,
		threshold: threshold,
		logger:    logger,
	}
}

// Retrieve finds the chunks most similar to the question. topK <= 0 and
// threshold < 0 select the configured defaults; threshold 0 is a valid
// explicit value that disables the similarity floor.
func (r *Retriever) Retrieve(ctx context.Context, meetingID uuid.UUID, question string, topK int, threshold float64) ([]entities.ScoredChunk, error) {
	if topK <= 0 {
		topK = r.topK
	}
	if threshold < 0 {
		threshold = r.threshold
	}

	query, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, err
	}
	vectorstore.Normalize(query)

	scored, err := r.store.Search(ctx, meetingID, query, topK, threshold)
	if err != nil {
		// A meeting without an index entry retrieves nothing; that is the
		// same normal outcome as nothing clearing the threshold.
		if errors.Is(err, apperrors.ErrMeetingNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if r.logger != nil {
		r.logger.Debug("retrieved chunks",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("hits", len(scored)),
			zap.Float64("threshold", threshold))
	}
	return scored, nil
}
