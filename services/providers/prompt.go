package providers

import "strings"

// roleLabels maps message roles to the labels used in flattened prompts.
var roleLabels = map[string]string{
	"system":    "System",
	"user":      "User",
	"assistant": "Assistant",
}

// FlattenMessages serializes a conversation into a single prompt string,
// one "Role: content" block per message, blank-line separated. Backends
// that accept only a single prompt (CLI, ollama /api/generate) consume
// this form. Flattening is deterministic and order-preserving.
func FlattenMessages(messages []Message) string {
	if len(messages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		label, ok := roleLabels[msg.Role]
		if !ok {
			label = roleLabels["user"]
		}
		parts = append(parts, label+": "+msg.Content)
	}

	return strings.Join(parts, "\n\n")
}

// SplitSystem partitions a conversation into the concatenated system
// prompt and the remaining non-system turns. Backends that hoist system
// messages into a dedicated field (anthropic) consume this form.
func SplitSystem(messages []Message) (system string, rest []Message) {
	var systemParts []string
	rest = make([]Message, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == "system" {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		rest = append(rest, msg)
	}

	return strings.Join(systemParts, "\n"), rest
}
