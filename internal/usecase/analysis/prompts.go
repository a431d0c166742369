package analysis

import (
	"fmt"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

const summarySystemPrompt = `You are a meeting analyst. Summarize the meeting transcript you are given.
Respond with a single JSON object and nothing else, in this exact shape:
{"summary": "<3-6 sentence summary of the meeting>", "key_topics": ["<topic>", ...]}
The summary must be grounded in the transcript. Do not invent content.`

const decisionsSystemPrompt = `You are a meeting analyst. Extract every decision or agreement reached in the transcript.
Respond with a single JSON object and nothing else, in this exact shape:
{"decisions": [{"decision": "<what was decided>", "made_by": "<who decided, or empty>", "context": "<why, or empty>"}]}
If no decisions were made, return {"decisions": []}. Do not invent decisions.`

const actionItemsSystemPrompt = `You are a meeting analyst. Extract every action item or task assigned in the transcript.
Respond with a single JSON object and nothing else, in this exact shape:
{"action_items": [{"task": "<what must be done>", "owner": "<who owns it, or empty>", "deadline": "<when it is due, or empty>", "priority": "<low|medium|high, or empty>"}]}
If no tasks were assigned, return {"action_items": []}. Do not invent tasks.`

func systemPromptFor(stage entities.StageName) string {
	switch stage {
	case entities.StageSummary:
		return summarySystemPrompt
	case entities.StageDecisions:
		return decisionsSystemPrompt
	case entities.StageActionItems:
		return actionItemsSystemPrompt
	default:
		return ""
	}
}

func userPrompt(transcriptText string) string {
	return fmt.Sprintf("Meeting transcript:\n\n%s", transcriptText)
}

// correctionPrompt re-asks a stage whose previous output failed schema
// validation, quoting the failure so the model can fix its shape.
func correctionPrompt(transcriptText, previousOutput, validationErr string) string {
	return fmt.Sprintf(
		"Meeting transcript:\n\n%s\n\nYour previous response was invalid: %s\nPrevious response:\n%s\n\nRespond again with a single JSON object in the required shape.",
		transcriptText, validationErr, previousOutput,
	)
}
