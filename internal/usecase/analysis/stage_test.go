package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// scriptedClient returns canned responses per stage, in order.
type scriptedClient struct {
	mu        sync.Mutex
	responses map[entities.StageName][]string
	errs      map[entities.StageName][]error
	calls     map[entities.StageName]int
}

func newScriptedClient() *scriptedClient {
	return &scriptedClient{
		responses: make(map[entities.StageName][]string),
		errs:      make(map[entities.StageName][]error),
		calls:     make(map[entities.StageName]int),
	}
}

func (c *scriptedClient) script(stage entities.StageName, response string, err error) {
	c.responses[stage] = append(c.responses[stage], response)
	c.errs[stage] = append(c.errs[stage], err)
}

func (c *scriptedClient) Complete(ctx context.Context, systemPrompt, _ string, _ bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	stage := stageFromSystemPrompt(systemPrompt)
	i := c.calls[stage]
	c.calls[stage]++
	if i >= len(c.responses[stage]) {
		return "", errors.New("no scripted response left")
	}
	return c.responses[stage][i], c.errs[stage][i]
}

func stageFromSystemPrompt(prompt string) entities.StageName {
	switch prompt {
	case summarySystemPrompt:
		return entities.StageSummary
	case decisionsSystemPrompt:
		return entities.StageDecisions
	default:
		return entities.StageActionItems
	}
}

func testTranscript() *entities.NormalizedTranscript {
	return entities.NewNormalizedTranscript(uuid.New(), []entities.Utterance{
		{Speaker: "Alice", Text: "Let's ship on Friday."},
		{Speaker: "Bob", Text: "I'll prepare the release notes."},
	}, []string{"Alice", "Bob"})
}

func TestStageSummarySuccess(t *testing.T) {
	client := newScriptedClient()
	client.script(entities.StageSummary, `{"summary": "The team agreed to ship on Friday.", "key_topics": ["release"]}`, nil)

	result := NewStageExecutor(client, 3, 0, nil).Run(context.Background(), entities.StageSummary, testTranscript())

	assert.Equal(t, entities.StageStatusSuccess, result.Status)
	assert.Equal(t, 1, result.Attempts)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "The team agreed to ship on Friday.", result.Summary.Summary)
}

func TestStageStripsCodeFences(t *testing.T) {
	client := newScriptedClient()
	client.script(entities.StageDecisions, "```json\n{\"decisions\": [{\"decision\": \"Ship Friday\", \"made_by\": \"Alice\", \"context\": \"\"}]}\n```", nil)

	result := NewStageExecutor(client, 3, 0, nil).Run(context.Background(), entities.StageDecisions, testTranscript())

	assert.Equal(t, entities.StageStatusSuccess, result.Status)
	require.Len(t, result.Decisions, 1)
	assert.Equal(t, "Ship Friday", result.Decisions[0].Text)
	assert.Equal(t, "Alice", result.Decisions[0].Owner)
}

func TestStageSelfCorrectsAfterSchemaFailure(t *testing.T) {
	client := newScriptedClient()
	client.script(entities.StageSummary, `{"summary": ""}`, nil)
	client.script(entities.StageSummary, `{"summary": "Fixed on retry.", "key_topics": []}`, nil)

	result := NewStageExecutor(client, 3, 0, nil).Run(context.Background(), entities.StageSummary, testTranscript())

	assert.Equal(t, entities.StageStatusSuccess, result.Status)
	assert.Equal(t, 2, result.Attempts)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "Fixed on retry.", result.Summary.Summary)
}

func TestStageExhaustedAttemptsYieldsSchemaError(t *testing.T) {
	client := newScriptedClient()
	for i := 0; i < 3; i++ {
		client.script(entities.StageSummary, "not json at all", nil)
	}

	result := NewStageExecutor(client, 3, 0, nil).Run(context.Background(), entities.StageSummary, testTranscript())

	assert.Equal(t, entities.StageStatusFailed, result.Status)
	assert.Equal(t, 3, result.Attempts)
	var schemaErr *apperrors.SchemaValidationError
	require.True(t, errors.As(result.Err, &schemaErr))
	assert.Equal(t, string(entities.StageSummary), schemaErr.Stage)
	assert.Equal(t, 3, schemaErr.Attempts)
}

func TestStageNonRetryableServiceErrorFailsFast(t *testing.T) {
	client := newScriptedClient()
	client.script(entities.StageActionItems, "",
		apperrors.NewServiceError("openai", apperrors.ServiceKindInvalidRequest, errors.New("bad request")))

	result := NewStageExecutor(client, 3, 0, nil).Run(context.Background(), entities.StageActionItems, testTranscript())

	assert.Equal(t, entities.StageStatusFailed, result.Status)
	var svcErr *apperrors.ServiceError
	require.True(t, errors.As(result.Err, &svcErr))
	assert.Equal(t, apperrors.ServiceKindInvalidRequest, svcErr.Kind)
	assert.Equal(t, 1, client.calls[entities.StageActionItems])
}

func TestStageRetriesRateLimitThenSucceeds(t *testing.T) {
	client := newScriptedClient()
	client.script(entities.StageActionItems, "",
		apperrors.NewServiceError("openai", apperrors.ServiceKindRateLimit, errors.New("429")))
	client.script(entities.StageActionItems, `{"action_items": [{"task": "Write release notes", "owner": "Bob", "deadline": "Friday", "priority": "high"}]}`, nil)

	result := NewStageExecutor(client, 3, 0, nil).Run(context.Background(), entities.StageActionItems, testTranscript())

	assert.Equal(t, entities.StageStatusSuccess, result.Status)
	require.Len(t, result.ActionItems, 1)
	assert.Equal(t, "Write release notes", result.ActionItems[0].Task)
	assert.Equal(t, "high", result.ActionItems[0].Priority)
}

func TestStageInvalidPriorityRejected(t *testing.T) {
	client := newScriptedClient()
	for i := 0; i < 2; i++ {
		client.script(entities.StageActionItems, `{"action_items": [{"task": "Do it", "priority": "urgent"}]}`, nil)
	}

	result := NewStageExecutor(client, 2, 0, nil).Run(context.Background(), entities.StageActionItems, testTranscript())

	assert.Equal(t, entities.StageStatusFailed, result.Status)
	var schemaErr *apperrors.SchemaValidationError
	assert.True(t, errors.As(result.Err, &schemaErr))
}

func TestStageEmptyDecisionListIsValid(t *testing.T) {
	client := newScriptedClient()
	client.script(entities.StageDecisions, `{"decisions": []}`, nil)

	result := NewStageExecutor(client, 3, 0, nil).Run(context.Background(), entities.StageDecisions, testTranscript())

	assert.Equal(t, entities.StageStatusSuccess, result.Status)
	assert.NotNil(t, result.Decisions)
	assert.Empty(t, result.Decisions)
}
