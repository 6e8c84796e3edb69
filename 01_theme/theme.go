package theme

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"shortform-studio/llm"
	"shortform-studio/types"
)

// Key is the artifact this collaborator writes.
const Key = "theme_intent"

// Output is the typed payload stored under Key.
type Output struct {
	Theme      string `json:"theme"`
	UserIntent string `json:"user_intent"`
}

const systemPrompt = `You are an expert in content strategy specializing in understanding user requests for video content.
Your task is to distill the user's idea into a concise theme and a clear statement of intent.

Rules:
- The theme must be 1 to 3 words summarizing the core topic.
- The user intent must capture the full request: subject, tone, style, length, audience, and any specific instructions.
- Base your output solely on the user's input. Do not invent details.
- If revision feedback is provided, the new theme must address it.

Respond with ONLY valid JSON in this shape, no markdown, no explanation:
{"theme": "...", "user_intent": "..."}`

// Definer proposes a video theme from the user's request, revising it when
// the approval loop hands back feedback.
type Definer struct {
	client *llm.Client
	log    zerolog.Logger
}

func NewDefiner(client *llm.Client, log zerolog.Logger) *Definer {
	return &Definer{client: client, log: log.With().Str("component", "theme").Logger()}
}

func (d *Definer) Name() string      { return "ThemeDefiner" }
func (d *Definer) OutputKey() string { return Key }

func (d *Definer) Run(ctx context.Context, sess *types.WorkflowSession) error {
	userInput, _ := sess.Artifacts.Text(types.KeyUserInput)

	var sb strings.Builder
	sb.WriteString("User request:\n")
	sb.WriteString(userInput)
	sb.WriteString("\n")

	var prev Output
	if err := sess.Artifacts.Get(Key, &prev); err == nil && prev.Theme != "" {
		fmt.Fprintf(&sb, "\nPreviously proposed theme: %s\nPreviously captured intent: %s\n", prev.Theme, prev.UserIntent)
	}
	if feedback, ok := sess.Artifacts.Text(types.KeyUserFeedback); ok && feedback != "" {
		fmt.Fprintf(&sb, "\nRevision feedback from the user:\n%s\n", feedback)
	}

	var out Output
	if err := d.client.CompleteJSON(ctx, systemPrompt, sb.String(), &out); err != nil {
		return fmt.Errorf("define theme: %w", err)
	}
	if out.Theme == "" {
		return fmt.Errorf("theme definer returned an empty theme")
	}

	d.log.Info().Str("theme", out.Theme).Msg("theme proposed")
	return sess.Artifacts.Set(Key, out)
}
