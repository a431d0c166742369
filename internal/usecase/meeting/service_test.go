package meeting

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/vectorstore"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/indexing"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/qa"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/transcript"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

// hashEmbedder derives a deterministic vector from the text so similar
// strings map to identical embeddings.
type hashEmbedder struct{}

func (hashEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, 8)
	for i, ch := range []byte(text) {
		vector[i%8] += float32(ch)
	}
	return vectorstore.Normalize(vector), nil
}

func (e hashEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i], _ = e.EmbedText(ctx, text)
	}
	return vectors, nil
}

type stubCompleter struct {
	answerFor func(systemPrompt, userPrompt string) string
}

func (s *stubCompleter) Complete(_ context.Context, systemPrompt, userPrompt string, _ bool) (string, error) {
	return s.answerFor(systemPrompt, userPrompt), nil
}

type stubTranscriber struct {
	transcript string
	err        error
}

func (s *stubTranscriber) TranscribeURL(_ context.Context, _ string) (string, error) {
	return s.transcript, s.err
}

func analysisStub(systemPrompt, _ string) string {
	switch {
	case strings.Contains(systemPrompt, "Summarize"):
		return `{"summary": "The team planned the release.", "key_topics": ["release"]}`
	case strings.Contains(systemPrompt, "decision"):
		return `{"decisions": [{"decision": "Ship Friday", "made_by": "Alice", "context": ""}]}`
	case strings.Contains(systemPrompt, "action item"):
		return `{"action_items": [{"task": "Write notes", "owner": "Bob", "deadline": "", "priority": "low"}]}`
	default:
		return "The release ships Friday."
	}
}

func newTestService(t *testing.T, transcriber *stubTranscriber) Service {
	t.Helper()

	store := vectorstore.NewMemoryStore()
	embedder := hashEmbedder{}
	completer := &stubCompleter{answerFor: analysisStub}

	chunker, err := transcript.NewChunker(20, 5)
	require.NoError(t, err)

	var audio ai.Transcriber
	if transcriber != nil {
		audio = transcriber
	}

	return NewService(
		transcript.NewNormalizer(nil),
		chunker,
		indexing.NewIndexer(embedder, store, nil, 3, nil),
		analysis.NewOrchestrator(analysis.NewStageExecutor(completer, 3, 0, nil), 0, nil),
		qa.NewRetriever(embedder, store, 5, 0.1, nil),
		qa.NewSynthesizer(completer, nil),
		audio,
		repository.NewMeetingMemoryRepository(),
		repository.NewAnalysisMemoryRepository(),
		store,
		nil,
	)
}

const sampleTranscript = `[00:01] Alice: Welcome everyone, today we plan the release.
[00:02] Bob: I think we should ship on Friday.
[00:03] Alice: Agreed, let's ship Friday. Bob, please write the release notes.
[00:04] Bob: Will do, I'll have them ready by Thursday.`

func TestIngestAndReingestIsIdempotent(t *testing.T) {
	svc := newTestService(t, nil)

	first, err := svc.Ingest(context.Background(), sampleTranscript, "Release planning")
	require.NoError(t, err)
	second, err := svc.Ingest(context.Background(), sampleTranscript, "Release planning")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ChunkCount, second.ChunkCount)
}

func TestIngestRejectsEmptyTranscript(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Ingest(context.Background(), "   ", "empty")
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_TRANSCRIPT_FORMAT, appErr.Code)
}

func TestAnalyzePersistsAndReturnsSnapshot(t *testing.T) {
	svc := newTestService(t, nil)

	record, err := svc.Ingest(context.Background(), sampleTranscript, "Release planning")
	require.NoError(t, err)

	result, err := svc.Analyze(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusComplete, result.Status)
	assert.Equal(t, "The team planned the release.", result.Summary)

	stored, err := svc.GetAnalysis(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Summary, stored.Summary)
	require.Len(t, stored.Decisions, 1)
	assert.Equal(t, "Ship Friday", stored.Decisions[0].Text)
}

func TestAnalyzeUnknownMeeting(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Analyze(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrMeetingNotFound)
}

func TestAskReturnsGroundedAnswer(t *testing.T) {
	svc := newTestService(t, nil)

	record, err := svc.Ingest(context.Background(), sampleTranscript, "Release planning")
	require.NoError(t, err)

	got, err := svc.Ask(context.Background(), entities.QARequest{
		MeetingID: record.ID,
		Question:  "When do we ship?",
	})
	require.NoError(t, err)
	assert.True(t, got.HasEvidence)
	assert.NotEmpty(t, got.Answer)
}

func TestAskUnknownMeeting(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Ask(context.Background(), entities.QARequest{
		MeetingID: uuid.New(),
		Question:  "anything?",
	})
	assert.ErrorIs(t, err, apperrors.ErrMeetingNotFound)
}

func TestDeleteRemovesEverything(t *testing.T) {
	svc := newTestService(t, nil)

	record, err := svc.Ingest(context.Background(), sampleTranscript, "Release planning")
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), record.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), record.ID))

	_, err = svc.Ask(context.Background(), entities.QARequest{MeetingID: record.ID, Question: "q"})
	assert.ErrorIs(t, err, apperrors.ErrMeetingNotFound)
	_, err = svc.GetAnalysis(context.Background(), record.ID)
	assert.ErrorIs(t, err, apperrors.ErrAnalysisNotFound)
}

func TestDeleteKeepsMeetingLock(t *testing.T) {
	svc := newTestService(t, nil).(*service)

	record, err := svc.Ingest(context.Background(), sampleTranscript, "Release planning")
	require.NoError(t, err)

	before := svc.lockFor(record.ID)
	require.NoError(t, svc.Delete(context.Background(), record.ID))

	// The same mutex must keep serializing this meeting id, otherwise a
	// writer still holding it could race a re-ingest under a fresh lock.
	assert.Same(t, before, svc.lockFor(record.ID))
}

func TestIngestAudioFeedsTranscriptPipeline(t *testing.T) {
	svc := newTestService(t, &stubTranscriber{transcript: sampleTranscript})

	record, err := svc.IngestAudio(context.Background(), "https://example.com/audio.mp3", "Recorded standup")
	require.NoError(t, err)
	assert.Greater(t, record.ChunkCount, 0)
}

func TestIngestAudioTranscriptionFailure(t *testing.T) {
	svc := newTestService(t, &stubTranscriber{err: errors.New("upstream down")})

	_, err := svc.IngestAudio(context.Background(), "https://example.com/audio.mp3", "Recorded standup")
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_TRANSCRIPTION_FAILED, appErr.Code)
}
