package entities

import (
	"time"

	"github.com/google/uuid"
)

// QARequest is a question asked against one meeting's indexed transcript.
// TopK <= 0 selects the configured default; Threshold < 0 selects the
// configured default while 0 is an explicit "no similarity floor".
type QARequest struct {
	MeetingID uuid.UUID
	Question  string
	TopK      int
	Threshold float64
}

// ScoredChunk pairs a chunk with its similarity to a query embedding.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64
}

// Citation points at one retrieved chunk that supports an answer.
type Citation struct {
	ChunkID string  `json:"chunk_id"`
	Index   int     `json:"chunk_index"`
	Excerpt string  `json:"excerpt"`
	Score   float64 `json:"score"`
}

// QAResponse carries the synthesized answer. HasEvidence is false when
// retrieval returned nothing above the similarity threshold; the answer
// then states that no relevant content was found and Citations is empty.
type QAResponse struct {
	MeetingID   uuid.UUID  `json:"meeting_id"`
	Question    string     `json:"question"`
	Answer      string     `json:"answer"`
	Citations   []Citation `json:"citations"`
	HasEvidence bool       `json:"has_evidence"`
	AnsweredAt  time.Time  `json:"answered_at"`
}
