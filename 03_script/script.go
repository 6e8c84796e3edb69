package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	research "shortform-studio/02_research"
	"shortform-studio/config"
	"shortform-studio/llm"
	"shortform-studio/types"
)

// Key is the artifact this collaborator writes: the raw narration text.
const Key = "script"

const systemPrompt = `You are an expert scriptwriter for short-form video content.
Write or revise the narration for a short video based on the theme, the user's intent,
and the compiled research report.

Rules:
- The content must be grounded in the research report. Do not invent facts.
- Strictly follow the user's intent.
- When a previous script and user feedback are provided, address every point of the feedback.
- Output ONLY the narration text to be spoken. No titles, no "Scene 1:", no "Narrator:",
  no formatting artifacts of any kind.`

// Writer drafts the video narration and reworks it through the approval loop
// until the user signs off.
type Writer struct {
	client *llm.Client
	cfg    config.ScriptConfig
	log    zerolog.Logger
}

func NewWriter(client *llm.Client, cfg config.ScriptConfig, log zerolog.Logger) *Writer {
	return &Writer{client: client, cfg: cfg, log: log.With().Str("component", "script").Logger()}
}

func (w *Writer) Name() string      { return "ScriptWriter" }
func (w *Writer) OutputKey() string { return Key }

func (w *Writer) Run(ctx context.Context, sess *types.WorkflowSession) error {
	theme, _ := sess.Artifacts.Text(types.KeyTheme)
	intent, _ := sess.Artifacts.Text(types.KeyIntent)
	report, _ := sess.Artifacts.Text(research.CompiledKey)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Target length: roughly %d seconds when read aloud at a natural pace.\n\n", w.cfg.TargetDurationSec)
	fmt.Fprintf(&sb, "## Theme\n%s\n\n## User's intent\n%s\n\n## Researched information\n%s\n", theme, intent, report)

	if current, ok := sess.Artifacts.Text(types.KeyCurrentScript); ok && current != "" {
		fmt.Fprintf(&sb, "\n## Current script\n%s\n", current)
	}
	if feedback, ok := sess.Artifacts.Text(types.KeyUserFeedback); ok && feedback != "" {
		fmt.Fprintf(&sb, "\n## User's feedback\n%s\n", feedback)
	}

	narration, err := w.client.Complete(ctx, systemPrompt, sb.String())
	if err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	narration = strings.TrimSpace(narration)
	if narration == "" {
		return fmt.Errorf("script writer returned an empty script")
	}

	w.log.Info().Int("words", len(strings.Fields(narration))).Msg("script drafted")
	sess.Artifacts.SetText(Key, narration)
	return nil
}
