package qa

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

const noEvidenceAnswer = "No relevant content was found in the meeting for this question."

const excerptLimit = 200

const qaSystemPrompt = `You answer questions about one meeting using only the transcript excerpts provided.
Rules:
- Answer strictly from the excerpts. Never use outside knowledge or guess.
- Cite every claim with the excerpt markers you were given, in the form [<id>].
- If the excerpts do not contain the answer, say so plainly and cite nothing.`

// citationPattern matches [<uuid>:<index>] markers in a model answer.
var citationPattern = regexp.MustCompile(`\[([0-9a-fA-F-]{36}):(\d+)\]`)

// Synthesizer turns retrieved chunks and a question into a grounded,
// cited answer. Citations the model emits are checked against the
// retrieved set; anything pointing elsewhere is stripped from the answer.
type Synthesizer struct {
	completer ai.CompletionClient
	logger    *zap.Logger
}

func NewSynthesizer(completer ai.CompletionClient, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{completer: completer, logger: logger}
}

// Synthesize produces the answer. When no chunks were retrieved it returns
// the fixed no-evidence response without calling the model.
func (s *Synthesizer) Synthesize(ctx context.Context, meetingID uuid.UUID, question string, retrieved []entities.ScoredChunk) (*entities.QAResponse, error) {
	response := &entities.QAResponse{
		MeetingID:  meetingID,
		Question:   question,
		Citations:  []entities.Citation{},
		AnsweredAt: time.Now().UTC(),
	}

	if len(retrieved) == 0 {
		response.Answer = noEvidenceAnswer
		response.HasEvidence = false
		return response, nil
	}

	raw, err := s.completer.Complete(ctx, qaSystemPrompt, contextPrompt(question, retrieved), false)
	if err != nil {
		return nil, err
	}

	answer, citations, dropped := validateCitations(raw, retrieved)
	response.Answer = answer
	response.Citations = citations
	response.HasEvidence = true

	if len(dropped) > 0 && s.logger != nil {
		s.logger.Warn("dropped citations referencing unknown chunks",
			zap.String("meeting_id", meetingID.String()),
			zap.Strings("dropped_citations", dropped))
	}
	if s.logger != nil {
		s.logger.Info("answered question",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("retrieved", len(retrieved)),
			zap.Int("citations", len(citations)),
			zap.Int("dropped", len(dropped)))
	}
	return response, nil
}

func contextPrompt(question string, retrieved []entities.ScoredChunk) string {
	var b strings.Builder
	b.WriteString("Transcript excerpts:\n\n")
	for _, sc := range retrieved {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", sc.Chunk.ID, sc.Chunk.Text)
	}
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}

// validateCitations keeps markers that point into the retrieved set and
// strips the rest from the answer text, reporting each stripped id so the
// caller can record the event. One Citation is emitted per distinct valid
// marker, in order of first appearance.
func validateCitations(answer string, retrieved []entities.ScoredChunk) (string, []entities.Citation, []string) {
	byID := make(map[string]entities.ScoredChunk, len(retrieved))
	for _, sc := range retrieved {
		byID[sc.Chunk.ID] = sc
	}

	seen := make(map[string]struct{})
	citations := []entities.Citation{}
	var dropped []string

	cleaned := citationPattern.ReplaceAllStringFunc(answer, func(marker string) string {
		m := citationPattern.FindStringSubmatch(marker)
		id := strings.ToLower(m[1]) + ":" + m[2]
		sc, ok := byID[id]
		if !ok {
			dropped = append(dropped, id)
			return ""
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			index, _ := strconv.Atoi(m[2])
			citations = append(citations, entities.Citation{
				ChunkID: id,
				Index:   index,
				Excerpt: excerpt(sc.Chunk.Text),
				Score:   sc.Score,
			})
		}
		return marker
	})

	return strings.TrimSpace(cleaned), citations, dropped
}

func excerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	cut := text[:excerptLimit]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
