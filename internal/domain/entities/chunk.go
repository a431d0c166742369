package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// Chunk is a bounded window of a normalized transcript used as a retrieval
// unit. StartOffset/EndOffset are byte offsets into NormalizedTranscript.Text
// and Text is exactly that byte slice, so consecutive chunks can be stitched
// back into the original text by trimming their overlap.
type Chunk struct {
	ID          string    `json:"id"`
	MeetingID   uuid.UUID `json:"meeting_id"`
	Index       int       `json:"index"`
	Text        string    `json:"text"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// ChunkID derives the chunk identifier used in citations.
func ChunkID(meetingID uuid.UUID, index int) string {
	return fmt.Sprintf("%s:%d", meetingID, index)
}

// NewChunk creates a chunk over the given byte span; the embedding is filled
// by the indexer later.
func NewChunk(meetingID uuid.UUID, index int, text string, start, end int) *Chunk {
	return &Chunk{
		ID:          ChunkID(meetingID, index),
		MeetingID:   meetingID,
		Index:       index,
		Text:        text,
		StartOffset: start,
		EndOffset:   end,
	}
}
