package meeting

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/vectorstore"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/indexing"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/qa"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/transcript"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

// Service is the application facade over the meeting pipeline: ingest,
// analysis, question answering and deletion.
type Service interface {
	Ingest(ctx context.Context, raw, title string) (*entities.MeetingRecord, error)
	IngestAudio(ctx context.Context, audioURL, title string) (*entities.MeetingRecord, error)
	Analyze(ctx context.Context, meetingID uuid.UUID) (*entities.AnalysisResult, error)
	GetAnalysis(ctx context.Context, meetingID uuid.UUID) (*entities.AnalysisResult, error)
	Ask(ctx context.Context, req entities.QARequest) (*entities.QAResponse, error)
	Delete(ctx context.Context, meetingID uuid.UUID) error
}

type service struct {
	normalizer   *transcript.Normalizer
	chunker      *transcript.Chunker
	indexer      *indexing.Indexer
	orchestrator *analysis.Orchestrator
	retriever    *qa.Retriever
	synthesizer  *qa.Synthesizer
	transcriber  ai.Transcriber
	meetings     repositories.MeetingRepository
	analyses     repositories.AnalysisRepository
	store        vectorstore.VectorStore
	logger       *zap.Logger

	// One lock per meeting serializes writes (ingest, analyze, delete) so
	// an index replace never races a concurrent analysis of the same
	// meeting. Entries are kept for the process lifetime; removing one
	// while a goroutine still holds its mutex would let a later caller
	// mint a fresh mutex and slip past the serialization. Reads go
	// through the stores' own synchronization.
	locks sync.Map
}

func NewService(
	normalizer *transcript.Normalizer,
	chunker *transcript.Chunker,
	indexer *indexing.Indexer,
	orchestrator *analysis.Orchestrator,
	retriever *qa.Retriever,
	synthesizer *qa.Synthesizer,
	transcriber ai.Transcriber,
	meetings repositories.MeetingRepository,
	analyses repositories.AnalysisRepository,
	store vectorstore.VectorStore,
	logger *zap.Logger,
) Service {
	return &service{
		normalizer:   normalizer,
		chunker:      chunker,
		indexer:      indexer,
		orchestrator: orchestrator,
		retriever:    retriever,
		synthesizer:  synthesizer,
		transcriber:  transcriber,
		meetings:     meetings,
		analyses:     analyses,
		store:        store,
		logger:       logger,
	}
}

func (s *service) lockFor(meetingID uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(meetingID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Ingest normalizes, chunks and indexes a raw transcript. The meeting id
// is derived from the raw content, so ingesting identical text twice
// converges on the same meeting instead of duplicating it.
func (s *service) Ingest(ctx context.Context, raw, title string) (*entities.MeetingRecord, error) {
	normalized, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, apperrors.ErrBadTranscript(err)
	}

	chunks, err := s.chunker.Split(normalized)
	if err != nil {
		return nil, apperrors.ErrBadTranscript(err)
	}

	mu := s.lockFor(normalized.MeetingID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.indexer.Index(ctx, normalized, chunks); err != nil {
		return nil, apperrors.ErrIndexingFailed(err)
	}

	record, err := entities.NewMeetingRecord(normalized, title, len(chunks))
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if err := s.meetings.Upsert(ctx, record); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	if s.logger != nil {
		s.logger.Info("ingested meeting",
			zap.String("meeting_id", record.ID.String()),
			zap.Int("chunks", len(chunks)),
			zap.Int("tokens", normalized.TokenCount))
	}
	return record, nil
}

// IngestAudio transcribes recorded audio and ingests the result.
func (s *service) IngestAudio(ctx context.Context, audioURL, title string) (*entities.MeetingRecord, error) {
	if s.transcriber == nil {
		return nil, apperrors.ErrInvalidArgument("audio ingestion is not configured")
	}
	raw, err := s.transcriber.TranscribeURL(ctx, audioURL)
	if err != nil {
		return nil, apperrors.ErrTranscriptionFailed(err)
	}
	return s.Ingest(ctx, raw, title)
}

// Analyze runs the extraction pipeline over a stored meeting and persists
// the snapshot. Partially failed runs are persisted too; their status and
// per-stage errors tell the caller what is missing.
func (s *service) Analyze(ctx context.Context, meetingID uuid.UUID) (*entities.AnalysisResult, error) {
	record, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	normalized := &entities.NormalizedTranscript{
		MeetingID:    record.ID,
		Participants: record.ParticipantList(),
		Text:         record.Transcript,
		CharCount:    record.CharCount,
		TokenCount:   record.TokenCount,
	}

	mu := s.lockFor(meetingID)
	mu.Lock()
	defer mu.Unlock()

	result := s.orchestrator.Analyze(ctx, normalized)

	analysisRecord, err := entities.NewAnalysisRecord(result)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if err := s.analyses.Create(ctx, analysisRecord); err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return result, nil
}

// GetAnalysis returns the latest stored snapshot for a meeting.
func (s *service) GetAnalysis(ctx context.Context, meetingID uuid.UUID) (*entities.AnalysisResult, error) {
	record, err := s.analyses.GetLatestByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	return record.ToResult()
}

// Ask answers a question against one meeting's index.
func (s *service) Ask(ctx context.Context, req entities.QARequest) (*entities.QAResponse, error) {
	if _, err := s.meetings.GetByID(ctx, req.MeetingID); err != nil {
		return nil, err
	}

	retrieved, err := s.retriever.Retrieve(ctx, req.MeetingID, req.Question, req.TopK, req.Threshold)
	if err != nil {
		return nil, classifyAskError(err)
	}

	response, err := s.synthesizer.Synthesize(ctx, req.MeetingID, req.Question, retrieved)
	if err != nil {
		return nil, classifyAskError(err)
	}
	return response, nil
}

func classifyAskError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, apperrors.ErrTimeout) {
		return apperrors.ErrDeadlineExceeded()
	}
	return apperrors.ErrQuestionFailed(err)
}

// Delete removes a meeting's record, analyses and vector index entry.
func (s *service) Delete(ctx context.Context, meetingID uuid.UUID) error {
	mu := s.lockFor(meetingID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.Delete(ctx, meetingID); err != nil {
		return apperrors.ErrInternal(err)
	}
	if err := s.analyses.DeleteByMeetingID(ctx, meetingID); err != nil {
		return apperrors.ErrInternal(err)
	}
	if err := s.meetings.Delete(ctx, meetingID); err != nil {
		return apperrors.ErrInternal(err)
	}
	return nil
}
