package analysis

import "strings"

const truncationMarker = "[... transcript truncated ...]"

// truncateToBudget fits transcript text into a whitespace-token budget by
// dropping tokens from the middle. The opening of a meeting names the
// participants and agenda and the close carries decisions and assignments,
// so both ends are kept.
func truncateToBudget(text string, budget int) string {
	if budget <= 0 {
		return text
	}
	tokens := strings.Fields(text)
	if len(tokens) <= budget {
		return text
	}

	head := budget * 2 / 3
	tail := budget - head
	if tail == 0 {
		tail = 1
		head = budget - 1
	}

	var b strings.Builder
	b.WriteString(strings.Join(tokens[:head], " "))
	b.WriteString("\n")
	b.WriteString(truncationMarker)
	b.WriteString("\n")
	b.WriteString(strings.Join(tokens[len(tokens)-tail:], " "))
	return b.String()
}
