package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

type stubService struct {
	record   *entities.MeetingRecord
	result   *entities.AnalysisResult
	response *entities.QAResponse
	askReq   *entities.QARequest
	err      error
}

func (s *stubService) Ingest(context.Context, string, string) (*entities.MeetingRecord, error) {
	return s.record, s.err
}

func (s *stubService) IngestAudio(context.Context, string, string) (*entities.MeetingRecord, error) {
	return s.record, s.err
}

func (s *stubService) Analyze(context.Context, uuid.UUID) (*entities.AnalysisResult, error) {
	return s.result, s.err
}

func (s *stubService) GetAnalysis(context.Context, uuid.UUID) (*entities.AnalysisResult, error) {
	return s.result, s.err
}

func (s *stubService) Ask(_ context.Context, req entities.QARequest) (*entities.QAResponse, error) {
	s.askReq = &req
	return s.response, s.err
}

func (s *stubService) Delete(context.Context, uuid.UUID) error {
	return s.err
}

func doRequest(t *testing.T, svc *stubService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := NewRouter(NewMeetingHandler(svc, nil))
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sampleRecord() *entities.MeetingRecord {
	return &entities.MeetingRecord{
		ID:           uuid.New(),
		Title:        "Planning",
		Participants: []byte(`["Alice","Bob"]`),
		Transcript:   "Alice: hi",
		ChunkCount:   3,
		TokenCount:   40,
		CreatedAt:    time.Now(),
	}
}

func TestIngestEndpointCreated(t *testing.T) {
	svc := &stubService{record: sampleRecord()}

	rec := doRequest(t, svc, http.MethodPost, "/v1/meetings",
		`{"transcript": "Alice: hello", "title": "Planning"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, svc.record.ID.String(), body["meeting_id"])
	assert.EqualValues(t, 3, body["chunk_count"])
}

func TestIngestEndpointRejectsMissingTranscript(t *testing.T) {
	rec := doRequest(t, &stubService{}, http.MethodPost, "/v1/meetings", `{"title": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestEndpointMapsFormatError(t *testing.T) {
	svc := &stubService{err: apperrors.ErrBadTranscript(apperrors.NewFormatError("empty"))}

	rec := doRequest(t, svc, http.MethodPost, "/v1/meetings", `{"transcript": "   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.ErrorCode_TRANSCRIPT_FORMAT.String(), body.Code)
}

func TestAnalysisEndpointNotFound(t *testing.T) {
	svc := &stubService{err: apperrors.ErrMeetingNotFound}

	rec := doRequest(t, svc, http.MethodPost, "/v1/meetings/"+uuid.NewString()+"/analysis", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalysisEndpointInvalidID(t *testing.T) {
	rec := doRequest(t, &stubService{}, http.MethodPost, "/v1/meetings/not-a-uuid/analysis", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuestionEndpointOK(t *testing.T) {
	meetingID := uuid.New()
	svc := &stubService{response: &entities.QAResponse{
		MeetingID:   meetingID,
		Question:    "when?",
		Answer:      "Friday",
		Citations:   []entities.Citation{},
		HasEvidence: true,
	}}

	rec := doRequest(t, svc, http.MethodPost, "/v1/meetings/"+meetingID.String()+"/questions",
		`{"question": "when?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Friday", body["answer"])
	assert.Equal(t, true, body["has_evidence"])
}

func TestQuestionEndpointThresholdMapping(t *testing.T) {
	meetingID := uuid.New()
	svc := &stubService{response: &entities.QAResponse{
		MeetingID: meetingID,
		Citations: []entities.Citation{},
	}}

	// Explicit 0 is passed through as 0, not treated as absent.
	doRequest(t, svc, http.MethodPost, "/v1/meetings/"+meetingID.String()+"/questions",
		`{"question": "when?", "threshold": 0}`)
	require.NotNil(t, svc.askReq)
	assert.Equal(t, 0.0, svc.askReq.Threshold)

	// Omitting the field selects the configured default downstream.
	doRequest(t, svc, http.MethodPost, "/v1/meetings/"+meetingID.String()+"/questions",
		`{"question": "when?"}`)
	assert.Equal(t, -1.0, svc.askReq.Threshold)
}

func TestQuestionEndpointRejectsOutOfRangeThreshold(t *testing.T) {
	rec := doRequest(t, &stubService{}, http.MethodPost, "/v1/meetings/"+uuid.NewString()+"/questions",
		`{"question": "when?", "threshold": 1.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteEndpointNoContent(t *testing.T) {
	rec := doRequest(t, &stubService{}, http.MethodDelete, "/v1/meetings/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(t, &stubService{}, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
