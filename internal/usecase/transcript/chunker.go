package transcript

import (
	"unicode"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// Chunker splits a normalized transcript into overlapping token windows.
// Chunk i starts at token i*(window-overlap); consecutive chunks share the
// trailing overlap tokens. Splitting is a pure function of the text and the
// two parameters.
type Chunker struct {
	window  int
	overlap int
}

func NewChunker(window, overlap int) (*Chunker, error) {
	if window <= 0 || overlap < 0 || overlap >= window {
		return nil, apperrors.ErrInvalidChunking
	}
	return &Chunker{window: window, overlap: overlap}, nil
}

// tokenSpan is one whitespace-delimited token and where it begins in the
// source text.
type tokenSpan struct {
	start int
}

// Split chunks the transcript text. A chunk's byte span runs from the start
// of its first token to the start of the token after its last (end of text
// for the final chunk), so spans tile the text and the original is
// reconstructable by concatenating chunk texts minus the shared overlap.
func (c *Chunker) Split(t *entities.NormalizedTranscript) ([]*entities.Chunk, error) {
	tokens := scanTokens(t.Text)
	if len(tokens) == 0 {
		return nil, apperrors.NewFormatError("transcript has no tokens to chunk")
	}

	stride := c.window - c.overlap
	var chunks []*entities.Chunk
	for index, first := 0, 0; ; index, first = index+1, first+stride {
		last := first + c.window
		startOffset := tokens[first].start
		endOffset := len(t.Text)
		if last < len(tokens) {
			endOffset = tokens[last].start
		}
		chunks = append(chunks, entities.NewChunk(
			t.MeetingID, index, t.Text[startOffset:endOffset], startOffset, endOffset,
		))
		if last >= len(tokens) {
			break
		}
	}
	return chunks, nil
}

// Reconstruct inverts Split: it concatenates chunk texts, dropping each
// chunk's prefix that the previous chunk already covered.
func Reconstruct(chunks []*entities.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	out := chunks[0].Text
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		skip := prev.EndOffset - cur.StartOffset
		if skip < 0 || skip > len(cur.Text) {
			return ""
		}
		out += cur.Text[skip:]
	}
	return out
}

func scanTokens(text string) []tokenSpan {
	var spans []tokenSpan
	inToken := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			inToken = false
			continue
		}
		if !inToken {
			spans = append(spans, tokenSpan{start: i})
			inToken = true
		}
	}
	return spans
}
