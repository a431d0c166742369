package meeting

// IngestRequest submits raw transcript text for ingestion.
type IngestRequest struct {
	Transcript string `json:"transcript" validate:"required,min=1"`
	Title      string `json:"title" validate:"omitempty,max=255"`
}

// IngestAudioRequest submits a recorded meeting by audio URL.
type IngestAudioRequest struct {
	AudioURL string `json:"audio_url" validate:"required,url"`
	Title    string `json:"title" validate:"omitempty,max=255"`
}

// QuestionRequest asks a question against an ingested meeting. TopK and
// Threshold fall back to server defaults when omitted; Threshold is a
// pointer so an explicit 0 (no similarity floor) stays distinguishable
// from an omitted field.
type QuestionRequest struct {
	Question  string   `json:"question" validate:"required,min=1"`
	TopK      int      `json:"top_k" validate:"omitempty,min=1,max=50"`
	Threshold *float64 `json:"threshold" validate:"omitempty,gte=0,lte=1"`
}
