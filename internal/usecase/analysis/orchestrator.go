package analysis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// Orchestrator fans the extraction stages out concurrently and merges
// their terminal results into one run. A stage failing, whatever the
// reason, never disturbs its siblings: the run completes with every result
// that finished.
type Orchestrator struct {
	executor     *StageExecutor
	stageTimeout time.Duration
	logger       *zap.Logger
}

func NewOrchestrator(executor *StageExecutor, stageTimeout time.Duration, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		executor:     executor,
		stageTimeout: stageTimeout,
		logger:       logger,
	}
}

// Analyze runs all stages against the transcript and returns the merged
// snapshot. The returned result is terminal even when every stage failed;
// callers inspect Status and StageErrors.
func (o *Orchestrator) Analyze(ctx context.Context, transcript *entities.NormalizedTranscript) *entities.AnalysisResult {
	state := entities.NewAgentState(transcript)

	results := make(chan *entities.StageResult, len(entities.AllStages))
	for _, stage := range entities.AllStages {
		stage := stage
		go func() {
			stageCtx := ctx
			var cancel context.CancelFunc
			if o.stageTimeout > 0 {
				stageCtx, cancel = context.WithTimeout(ctx, o.stageTimeout)
				defer cancel()
			}
			results <- o.executor.Run(stageCtx, stage, transcript)
		}()
	}

	for range entities.AllStages {
		state.MergeStage(<-results)
	}
	state.Classify()

	result := entities.NewAnalysisResult(state)
	if o.logger != nil {
		o.logger.Info("analysis run finished",
			zap.String("meeting_id", transcript.MeetingID.String()),
			zap.String("status", string(result.Status)),
			zap.Duration("elapsed", time.Since(state.StartedAt)))
	}
	return result
}
