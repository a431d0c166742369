package meeting

import (
	"time"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

type IngestResponse struct {
	MeetingID    string    `json:"meeting_id"`
	Title        string    `json:"title,omitempty"`
	Participants []string  `json:"participants"`
	ChunkCount   int       `json:"chunk_count"`
	TokenCount   int       `json:"token_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewIngestResponse(record *entities.MeetingRecord) IngestResponse {
	return IngestResponse{
		MeetingID:    record.ID.String(),
		Title:        record.Title,
		Participants: record.ParticipantList(),
		ChunkCount:   record.ChunkCount,
		TokenCount:   record.TokenCount,
		CreatedAt:    record.CreatedAt,
	}
}

type AnalysisResponse struct {
	MeetingID   string                `json:"meeting_id"`
	Status      string                `json:"status"`
	Summary     string                `json:"summary,omitempty"`
	KeyTopics   []string              `json:"key_topics,omitempty"`
	Decisions   []entities.Decision   `json:"decisions"`
	ActionItems []entities.ActionItem `json:"action_items"`
	StageStatus map[string]string     `json:"stage_status"`
	StageErrors map[string]string     `json:"stage_errors,omitempty"`
	GeneratedAt time.Time             `json:"generated_at"`
}

func NewAnalysisResponse(result *entities.AnalysisResult) AnalysisResponse {
	stageStatus := make(map[string]string, len(result.StageStatus))
	for stage, status := range result.StageStatus {
		stageStatus[string(stage)] = string(status)
	}
	var stageErrors map[string]string
	if len(result.StageErrors) > 0 {
		stageErrors = make(map[string]string, len(result.StageErrors))
		for stage, msg := range result.StageErrors {
			stageErrors[string(stage)] = msg
		}
	}
	return AnalysisResponse{
		MeetingID:   result.MeetingID.String(),
		Status:      string(result.Status),
		Summary:     result.Summary,
		KeyTopics:   result.KeyTopics,
		Decisions:   result.Decisions,
		ActionItems: result.ActionItems,
		StageStatus: stageStatus,
		StageErrors: stageErrors,
		GeneratedAt: result.GeneratedAt,
	}
}

type AnswerResponse struct {
	MeetingID   string              `json:"meeting_id"`
	Question    string              `json:"question"`
	Answer      string              `json:"answer"`
	Citations   []entities.Citation `json:"citations"`
	HasEvidence bool                `json:"has_evidence"`
	AnsweredAt  time.Time           `json:"answered_at"`
}

func NewAnswerResponse(response *entities.QAResponse) AnswerResponse {
	return AnswerResponse{
		MeetingID:   response.MeetingID.String(),
		Question:    response.Question,
		Answer:      response.Answer,
		Citations:   response.Citations,
		HasEvidence: response.HasEvidence,
		AnsweredAt:  response.AnsweredAt,
	}
}
