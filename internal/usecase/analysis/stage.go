package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

// StageExecutor runs one extraction stage against a transcript. Transient
// provider failures are retried with backoff inside an attempt; an output
// that parses but fails its schema consumes an attempt and is re-asked with
// the validation failure quoted back.
type StageExecutor struct {
	client      ai.CompletionClient
	validate    *validator.Validate
	maxAttempts int
	tokenBudget int
	logger      *zap.Logger
}

func NewStageExecutor(client ai.CompletionClient, maxAttempts, tokenBudget int, logger *zap.Logger) *StageExecutor {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &StageExecutor{
		client:      client,
		validate:    validator.New(),
		maxAttempts: maxAttempts,
		tokenBudget: tokenBudget,
		logger:      logger,
	}
}

// Run executes the stage to a terminal StageResult. It never returns an
// error: failures are recorded on the result so sibling stages proceed
// regardless.
func (e *StageExecutor) Run(ctx context.Context, stage entities.StageName, transcript *entities.NormalizedTranscript) *entities.StageResult {
	result := &entities.StageResult{Stage: stage, Status: entities.StageStatusFailed}

	text := truncateToBudget(transcript.Text, e.tokenBudget)
	prompt := userPrompt(text)

	var lastSchemaErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		result.Attempts = attempt

		output, err := e.completeWithRetry(ctx, stage, prompt)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				result.Err = apperrors.ErrTimeout
			} else {
				result.Err = err
			}
			return result
		}

		if err := e.decodeInto(stage, output, result); err != nil {
			lastSchemaErr = err
			if e.logger != nil {
				e.logger.Warn("stage output failed validation",
					zap.String("stage", string(stage)),
					zap.Int("attempt", attempt),
					zap.Error(err))
			}
			prompt = correctionPrompt(text, output, err.Error())
			continue
		}

		result.Status = entities.StageStatusSuccess
		result.Err = nil
		return result
	}

	result.Err = &apperrors.SchemaValidationError{
		Stage:    string(stage),
		Attempts: e.maxAttempts,
		Raw:      lastSchemaErr,
	}
	return result
}

// completeWithRetry issues the completion call, retrying rate limits and
// server errors with exponential backoff.
func (e *StageExecutor) completeWithRetry(ctx context.Context, stage entities.StageName, prompt string) (string, error) {
	var output string
	operation := func() error {
		var err error
		output, err = e.client.Complete(ctx, systemPromptFor(stage), prompt, true)
		if err != nil && !apperrors.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(time.Second),
			backoff.WithMaxInterval(15*time.Second),
		),
		uint64(e.maxAttempts-1),
	), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return output, nil
}

// decodeInto parses and validates the model output, writing the payload
// onto the result on success.
func (e *StageExecutor) decodeInto(stage entities.StageName, output string, result *entities.StageResult) error {
	jsonStr, err := extractJSON(output)
	if err != nil {
		return err
	}

	switch stage {
	case entities.StageSummary:
		var payload entities.SummaryPayload
		if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
			return fmt.Errorf("summary payload is not valid JSON: %w", err)
		}
		if err := e.validate.Struct(&payload); err != nil {
			return fmt.Errorf("summary payload failed validation: %w", err)
		}
		result.Summary = &payload

	case entities.StageDecisions:
		var payload entities.DecisionsPayload
		if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
			return fmt.Errorf("decisions payload is not valid JSON: %w", err)
		}
		if payload.Decisions == nil {
			payload.Decisions = []entities.Decision{}
		}
		if err := e.validate.Struct(&payload); err != nil {
			return fmt.Errorf("decisions payload failed validation: %w", err)
		}
		result.Decisions = payload.Decisions

	case entities.StageActionItems:
		var payload entities.ActionItemsPayload
		if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
			return fmt.Errorf("action items payload is not valid JSON: %w", err)
		}
		if payload.ActionItems == nil {
			payload.ActionItems = []entities.ActionItem{}
		}
		if err := e.validate.Struct(&payload); err != nil {
			return fmt.Errorf("action items payload failed validation: %w", err)
		}
		result.ActionItems = payload.ActionItems

	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	return nil
}
