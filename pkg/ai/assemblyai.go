package ai

import (
	"context"
	"fmt"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
)

// AssemblyAIClient transcribes recorded meeting audio with speaker
// diarization. Its output is rendered as "[mm:ss] Speaker: text" lines so
// it feeds straight into transcript normalization.
type AssemblyAIClient struct {
	client *aai.Client
	logger *zap.Logger
}

func NewAssemblyAIClient(apiKey string, logger *zap.Logger) (*AssemblyAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("assemblyai api key is required")
	}
	return &AssemblyAIClient{
		client: aai.NewClient(apiKey),
		logger: logger,
	}, nil
}

func (c *AssemblyAIClient) TranscribeURL(ctx context.Context, audioURL string) (string, error) {
	if c.logger != nil {
		c.logger.Info("submitting audio for transcription", zap.String("audio_url", audioURL))
	}

	transcript, err := c.client.Transcripts.TranscribeFromURL(ctx, audioURL, &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
		Punctuate:     aai.Bool(true),
		FormatText:    aai.Bool(true),
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", apperrors.NewServiceError("assemblyai", apperrors.ClassifyServiceFailure(err), err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		reason := "transcription failed"
		if transcript.Error != nil {
			reason = *transcript.Error
		}
		return "", apperrors.NewServiceError("assemblyai", apperrors.ServiceKindServerError, fmt.Errorf("%s", reason))
	}

	var b strings.Builder
	for _, u := range transcript.Utterances {
		speaker := "Unknown"
		if u.Speaker != nil && *u.Speaker != "" {
			speaker = "Speaker " + *u.Speaker
		}
		text := ""
		if u.Text != nil {
			text = *u.Text
		}
		start := int64(0)
		if u.Start != nil {
			start = *u.Start
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", formatTimestamp(start), speaker, text)
	}

	result := b.String()
	if result == "" && transcript.Text != nil {
		result = *transcript.Text
	}
	return result, nil
}

// formatTimestamp renders milliseconds as mm:ss, spilling into hours when
// the recording is long enough.
func formatTimestamp(ms int64) string {
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
