package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/meeting"
)

type MeetingHandler struct {
	service meeting.Service
	logger  *zap.Logger
}

func NewMeetingHandler(service meeting.Service, logger *zap.Logger) *MeetingHandler {
	return &MeetingHandler{service: service, logger: logger}
}

// Ingest handles POST /v1/meetings.
func (h *MeetingHandler) Ingest(c echo.Context) error {
	var req dto.IngestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record, err := h.service.Ingest(c.Request().Context(), req.Transcript, req.Title)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewIngestResponse(record))
}

// IngestAudio handles POST /v1/meetings/audio.
func (h *MeetingHandler) IngestAudio(c echo.Context) error {
	var req dto.IngestAudioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record, err := h.service.IngestAudio(c.Request().Context(), req.AudioURL, req.Title)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewIngestResponse(record))
}

// Analyze handles POST /v1/meetings/:id/analysis.
func (h *MeetingHandler) Analyze(c echo.Context) error {
	meetingID, err := parseMeetingID(c)
	if err != nil {
		return err
	}

	result, err := h.service.Analyze(c.Request().Context(), meetingID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewAnalysisResponse(result))
}

// GetAnalysis handles GET /v1/meetings/:id/analysis.
func (h *MeetingHandler) GetAnalysis(c echo.Context) error {
	meetingID, err := parseMeetingID(c)
	if err != nil {
		return err
	}

	result, err := h.service.GetAnalysis(c.Request().Context(), meetingID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewAnalysisResponse(result))
}

// Ask handles POST /v1/meetings/:id/questions.
func (h *MeetingHandler) Ask(c echo.Context) error {
	meetingID, err := parseMeetingID(c)
	if err != nil {
		return err
	}

	var req dto.QuestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	threshold := -1.0
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	response, err := h.service.Ask(c.Request().Context(), entities.QARequest{
		MeetingID: meetingID,
		Question:  req.Question,
		TopK:      req.TopK,
		Threshold: threshold,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewAnswerResponse(response))
}

// Delete handles DELETE /v1/meetings/:id.
func (h *MeetingHandler) Delete(c echo.Context) error {
	meetingID, err := parseMeetingID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), meetingID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseMeetingID(c echo.Context) (uuid.UUID, error) {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid meeting id")
	}
	return meetingID, nil
}
