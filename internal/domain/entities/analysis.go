package entities

import (
	"time"

	"github.com/google/uuid"
)

// StageName identifies one independent extraction task over a transcript.
type StageName string

const (
	StageSummary     StageName = "summary"
	StageDecisions   StageName = "decisions"
	StageActionItems StageName = "action_items"
)

// AllStages lists the pipeline stages in their canonical order.
var AllStages = []StageName{StageSummary, StageDecisions, StageActionItems}

// StageStatus is the lifecycle state of a single stage.
type StageStatus string

const (
	StageStatusPending StageStatus = "pending"
	StageStatusSuccess StageStatus = "success"
	StageStatusFailed  StageStatus = "failed"
)

// RunStatus is the lifecycle state of a whole analysis run.
type RunStatus string

const (
	RunStatusInProgress        RunStatus = "in_progress"
	RunStatusComplete          RunStatus = "complete"
	RunStatusPartiallyComplete RunStatus = "partially_complete"
	RunStatusFailed            RunStatus = "failed"
)

// SummaryPayload is the structured output of the summary stage.
type SummaryPayload struct {
	Summary   string   `json:"summary" validate:"required,min=1"`
	KeyTopics []string `json:"key_topics"`
}

// Decision represents a decision or agreement extracted from the meeting.
type Decision struct {
	Text      string `json:"decision" validate:"required,min=1"`
	Owner     string `json:"made_by,omitempty"`
	Rationale string `json:"context,omitempty"`
}

// DecisionsPayload is the structured output of the decisions stage.
type DecisionsPayload struct {
	Decisions []Decision `json:"decisions" validate:"dive"`
}

// ActionItem represents a task extracted from the meeting.
type ActionItem struct {
	Task     string `json:"task" validate:"required,min=1"`
	Owner    string `json:"owner,omitempty"`
	Due      string `json:"deadline,omitempty"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

// ActionItemsPayload is the structured output of the action-items stage.
type ActionItemsPayload struct {
	ActionItems []ActionItem `json:"action_items" validate:"dive"`
}

// StageResult is the terminal outcome of one stage. Exactly one payload
// field is populated on success, matching Stage; on failure Err carries a
// SchemaValidationError or ServiceError and the payload fields are empty.
type StageResult struct {
	Stage    StageName
	Status   StageStatus
	Attempts int
	Err      error

	Summary     *SummaryPayload
	Decisions   []Decision
	ActionItems []ActionItem
}

// AgentState accumulates stage results for one analysis run. Only the
// orchestrator mutates it, merging one StageResult at a time; stages write
// disjoint keys so no additional locking is needed beyond collecting results.
type AgentState struct {
	MeetingID  uuid.UUID
	Transcript *NormalizedTranscript
	Stages     map[StageName]*StageResult
	Status     RunStatus
	StartedAt  time.Time
}

// NewAgentState creates the initial run state with all stages pending.
func NewAgentState(transcript *NormalizedTranscript) *AgentState {
	stages := make(map[StageName]*StageResult, len(AllStages))
	for _, name := range AllStages {
		stages[name] = &StageResult{Stage: name, Status: StageStatusPending}
	}
	return &AgentState{
		MeetingID:  transcript.MeetingID,
		Transcript: transcript,
		Stages:     stages,
		Status:     RunStatusInProgress,
		StartedAt:  time.Now().UTC(),
	}
}

// MergeStage records a finished stage result. It is the single mutation
// point for stage state.
func (s *AgentState) MergeStage(result *StageResult) {
	s.Stages[result.Stage] = result
}

// Classify computes the terminal run status from the merged stage results.
func (s *AgentState) Classify() RunStatus {
	allOK := true
	for _, name := range AllStages {
		res, ok := s.Stages[name]
		if !ok || res.Status != StageStatusSuccess {
			allOK = false
			break
		}
	}
	if allOK {
		s.Status = RunStatusComplete
	} else {
		s.Status = RunStatusPartiallyComplete
	}
	return s.Status
}

// AnalysisResult is the read-only snapshot of a terminal AgentState.
type AnalysisResult struct {
	MeetingID    uuid.UUID                 `json:"meeting_id"`
	Summary      string                    `json:"summary,omitempty"`
	KeyTopics    []string                  `json:"key_topics,omitempty"`
	Decisions    []Decision                `json:"decisions"`
	ActionItems  []ActionItem              `json:"action_items"`
	StageStatus  map[StageName]StageStatus `json:"stage_status"`
	StageErrors  map[StageName]string      `json:"stage_errors,omitempty"`
	Status       RunStatus                 `json:"status"`
	Participants []string                  `json:"participants,omitempty"`
	GeneratedAt  time.Time                 `json:"generated_at"`
}

// NewAnalysisResult freezes a terminal AgentState into its snapshot form.
func NewAnalysisResult(state *AgentState) *AnalysisResult {
	result := &AnalysisResult{
		MeetingID:   state.MeetingID,
		Decisions:   []Decision{},
		ActionItems: []ActionItem{},
		StageStatus: make(map[StageName]StageStatus, len(state.Stages)),
		StageErrors: make(map[StageName]string),
		Status:      state.Status,
		GeneratedAt: time.Now().UTC(),
	}
	if state.Transcript != nil {
		result.Participants = state.Transcript.Participants
	}

	for name, res := range state.Stages {
		result.StageStatus[name] = res.Status
		if res.Err != nil {
			result.StageErrors[name] = res.Err.Error()
		}
		if res.Status != StageStatusSuccess {
			continue
		}
		switch name {
		case StageSummary:
			if res.Summary != nil {
				result.Summary = res.Summary.Summary
				result.KeyTopics = res.Summary.KeyTopics
			}
		case StageDecisions:
			result.Decisions = res.Decisions
		case StageActionItems:
			result.ActionItems = res.ActionItems
		}
	}
	return result
}
