package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingRecord is the persisted form of an ingested meeting.
type MeetingRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string         `gorm:"type:varchar(255)" json:"title"`
	Participants datatypes.JSON `gorm:"type:jsonb" json:"participants"`
	Transcript   string         `gorm:"type:text;not null" json:"transcript"`
	CharCount    int            `gorm:"not null" json:"char_count"`
	TokenCount   int            `gorm:"not null" json:"token_count"`
	ChunkCount   int            `gorm:"not null" json:"chunk_count"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MeetingRecord) TableName() string {
	return "meetings"
}

// NewMeetingRecord builds the persisted form of a normalized transcript.
func NewMeetingRecord(transcript *NormalizedTranscript, title string, chunkCount int) (*MeetingRecord, error) {
	participants, err := json.Marshal(transcript.Participants)
	if err != nil {
		return nil, err
	}
	return &MeetingRecord{
		ID:           transcript.MeetingID,
		Title:        title,
		Participants: participants,
		Transcript:   transcript.Text,
		CharCount:    transcript.CharCount,
		TokenCount:   transcript.TokenCount,
		ChunkCount:   chunkCount,
	}, nil
}

// ParticipantList decodes the stored participants column.
func (m *MeetingRecord) ParticipantList() []string {
	var out []string
	if err := json.Unmarshal(m.Participants, &out); err != nil {
		return nil
	}
	return out
}

// AnalysisRecord is the persisted form of an analysis run snapshot.
type AnalysisRecord struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	MeetingID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"meeting_id"`
	Status      string         `gorm:"type:varchar(32);not null" json:"status"`
	Summary     string         `gorm:"type:text" json:"summary"`
	KeyTopics   datatypes.JSON `gorm:"type:jsonb" json:"key_topics"`
	Decisions   datatypes.JSON `gorm:"type:jsonb" json:"decisions"`
	ActionItems datatypes.JSON `gorm:"type:jsonb" json:"action_items"`
	StageStatus datatypes.JSON `gorm:"type:jsonb" json:"stage_status"`
	StageErrors datatypes.JSON `gorm:"type:jsonb" json:"stage_errors"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (AnalysisRecord) TableName() string {
	return "analyses"
}

// NewAnalysisRecord freezes an AnalysisResult into its persisted form.
func NewAnalysisRecord(result *AnalysisResult) (*AnalysisRecord, error) {
	keyTopics, err := json.Marshal(result.KeyTopics)
	if err != nil {
		return nil, err
	}
	decisions, err := json.Marshal(result.Decisions)
	if err != nil {
		return nil, err
	}
	actionItems, err := json.Marshal(result.ActionItems)
	if err != nil {
		return nil, err
	}
	stageStatus, err := json.Marshal(result.StageStatus)
	if err != nil {
		return nil, err
	}
	stageErrors, err := json.Marshal(result.StageErrors)
	if err != nil {
		return nil, err
	}
	return &AnalysisRecord{
		ID:          uuid.New(),
		MeetingID:   result.MeetingID,
		Status:      string(result.Status),
		Summary:     result.Summary,
		KeyTopics:   keyTopics,
		Decisions:   decisions,
		ActionItems: actionItems,
		StageStatus: stageStatus,
		StageErrors: stageErrors,
	}, nil
}

// ToResult rehydrates the stored snapshot.
func (a *AnalysisRecord) ToResult() (*AnalysisResult, error) {
	result := &AnalysisResult{
		MeetingID:   a.MeetingID,
		Summary:     a.Summary,
		Status:      RunStatus(a.Status),
		GeneratedAt: a.CreatedAt,
	}
	if err := json.Unmarshal(a.KeyTopics, &result.KeyTopics); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(a.Decisions, &result.Decisions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(a.ActionItems, &result.ActionItems); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(a.StageStatus, &result.StageStatus); err != nil {
		return nil, err
	}
	if len(a.StageErrors) > 0 {
		if err := json.Unmarshal(a.StageErrors, &result.StageErrors); err != nil {
			return nil, err
		}
	}
	return result, nil
}
