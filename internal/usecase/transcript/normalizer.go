package transcript

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// meetingNamespace seeds content-derived meeting ids. Two ingests of the
// same raw transcript always map to the same meeting.
var meetingNamespace = uuid.MustParse("8f2f9f0a-3c41-4f6e-9d3b-5a1c6f0e7b21")

const unknownSpeaker = "Unknown"

// Line grammars accepted by the normalizer, tried in order.
var (
	// [00:01:02] Alice: text
	reBracketTS = regexp.MustCompile(`^\[(\d{1,2}:\d{2}(?::\d{2})?)\]\s*([^:]+?)\s*:\s*(.*)$`)
	// 00:01:02 - Alice: text
	reDashTS = regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?)\s*-\s*([^:]+?)\s*:\s*(.*)$`)
	// Alice (00:01:02): text
	reParenTS = regexp.MustCompile(`^([^:(\[]+?)\s*\((\d{1,2}:\d{2}(?::\d{2})?)\)\s*:\s*(.*)$`)
	// Alice: text
	reSimple = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 .'_-]{0,48}?)\s*:\s*(.*)$`)
)

// Normalizer parses raw transcript text into an ordered utterance sequence.
// Lines that match no grammar are treated as continuations of the previous
// utterance; leading continuations are attributed to an unknown speaker.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize parses raw into a NormalizedTranscript. It returns a
// FormatError when the input is empty or contains no recognizable speaker
// line; that failure is fatal to ingestion.
func (n *Normalizer) Normalize(raw string) (*entities.NormalizedTranscript, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.NewFormatError("transcript is empty")
	}

	var (
		utterances []entities.Utterance
		matched    bool
	)
	for _, line := range strings.Split(raw, "\n") {
		// Collapses runs of whitespace inside the line as well as trimming.
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if utt, ok := parseLine(line); ok {
			utterances = append(utterances, utt)
			matched = true
			continue
		}
		// Continuation of the previous speaker turn.
		if len(utterances) > 0 {
			last := &utterances[len(utterances)-1]
			if last.Text == "" {
				last.Text = line
			} else {
				last.Text += " " + line
			}
			continue
		}
		utterances = append(utterances, entities.Utterance{Speaker: unknownSpeaker, Text: line})
	}

	if !matched {
		return nil, apperrors.NewFormatError("no recognizable speaker lines")
	}

	meetingID := uuid.NewSHA1(meetingNamespace, []byte(raw))
	transcript := entities.NewNormalizedTranscript(meetingID, utterances, participants(utterances))

	if n.logger != nil {
		n.logger.Info("normalized transcript",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("utterances", len(utterances)),
			zap.Int("participants", len(transcript.Participants)),
			zap.Int("tokens", transcript.TokenCount))
	}
	return transcript, nil
}

func parseLine(line string) (entities.Utterance, bool) {
	if m := reBracketTS.FindStringSubmatch(line); m != nil {
		return entities.Utterance{Timestamp: m[1], Speaker: m[2], Text: m[3]}, true
	}
	if m := reDashTS.FindStringSubmatch(line); m != nil {
		return entities.Utterance{Timestamp: m[1], Speaker: m[2], Text: m[3]}, true
	}
	if m := reParenTS.FindStringSubmatch(line); m != nil {
		return entities.Utterance{Speaker: m[1], Timestamp: m[2], Text: m[3]}, true
	}
	if m := reSimple.FindStringSubmatch(line); m != nil {
		return entities.Utterance{Speaker: m[1], Text: m[2]}, true
	}
	return entities.Utterance{}, false
}

// participants lists distinct speakers in order of first appearance,
// skipping the unknown placeholder.
func participants(utterances []entities.Utterance) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, u := range utterances {
		if u.Speaker == unknownSpeaker {
			continue
		}
		if _, ok := seen[u.Speaker]; ok {
			continue
		}
		seen[u.Speaker] = struct{}{}
		out = append(out, u.Speaker)
	}
	return out
}
