package entities

import (
	"strings"

	"github.com/google/uuid"
)

// Utterance represents a single speaker turn in a normalized transcript.
// Order within the transcript is meaning-bearing.
type Utterance struct {
	Speaker   string `json:"speaker"`
	Timestamp string `json:"timestamp,omitempty"`
	Text      string `json:"text"`
}

// Line renders the utterance in the canonical "[ts] Speaker: text" form.
func (u Utterance) Line() string {
	var sb strings.Builder
	if u.Timestamp != "" {
		sb.WriteString("[")
		sb.WriteString(u.Timestamp)
		sb.WriteString("] ")
	}
	sb.WriteString(u.Speaker)
	sb.WriteString(": ")
	sb.WriteString(u.Text)
	return sb.String()
}

// NormalizedTranscript is the immutable, ordered utterance sequence produced
// by the normalizer. Text is the canonical rendering the chunker operates on;
// all chunk byte offsets point into it.
type NormalizedTranscript struct {
	MeetingID    uuid.UUID   `json:"meeting_id"`
	Utterances   []Utterance `json:"utterances"`
	Participants []string    `json:"participants"`
	Text         string      `json:"text"`
	CharCount    int         `json:"char_count"`
	TokenCount   int         `json:"token_count"`
}

// NewNormalizedTranscript builds the canonical transcript from an utterance
// sequence, rendering the text form and counting characters and
// whitespace-delimited tokens.
func NewNormalizedTranscript(meetingID uuid.UUID, utterances []Utterance, participants []string) *NormalizedTranscript {
	lines := make([]string, 0, len(utterances))
	for _, u := range utterances {
		lines = append(lines, u.Line())
	}
	text := strings.Join(lines, "\n")

	return &NormalizedTranscript{
		MeetingID:    meetingID,
		Utterances:   utterances,
		Participants: participants,
		Text:         text,
		CharCount:    len(text),
		TokenCount:   len(strings.Fields(text)),
	}
}
