package workflow

import (
	"context"
	"strings"

	"shortform-studio/llm"
)

// Classifier turns free-text user feedback into an approval verdict. The
// classifier itself is an external collaborator; only its output grammar is
// part of the core protocol: exactly "approved" (case-insensitive, trimmed)
// advances the stage, anything else is revision feedback.
type Classifier interface {
	Classify(ctx context.Context, input string) (string, error)
}

// Decision is the parsed verdict of one classifier call.
type Decision struct {
	Approved bool
	Feedback string
}

// ParseDecision applies the approval grammar to raw classifier output. Empty
// or missing output counts as "not approved" with no feedback text.
func ParseDecision(raw string) Decision {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Decision{}
	}
	if strings.EqualFold(raw, "approved") {
		return Decision{Approved: true}
	}
	return Decision{Feedback: raw}
}

const classifierSystemPrompt = `Your task is to understand and parse feedback from the user.
Decide whether the user approved the current state or not.

# Output format
If the user indicated in any way that the current state was approved, output exactly 'approved'.
If the user provided feedback instead, digest it into actionable revision steps and output only those.
In any other case output 'not approved'.`

// LLMClassifier asks the shared chat model to interpret the user's reply.
type LLMClassifier struct {
	client *llm.Client
}

func NewLLMClassifier(client *llm.Client) *LLMClassifier {
	return &LLMClassifier{client: client}
}

func (c *LLMClassifier) Classify(ctx context.Context, input string) (string, error) {
	return c.client.Complete(ctx, classifierSystemPrompt, input)
}
