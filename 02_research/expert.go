package research

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"shortform-studio/llm"
	"shortform-studio/types"
)

// Artifact keys written by the three research collaborators.
const (
	ExpertKey   = "expert_researcher_report"
	WebKey      = "web_researcher_report"
	CompiledKey = "compiled_research_report"
)

const expertSystemPrompt = `You are an expert researcher with deep knowledge across a wide range of topics.
Write a comprehensive, well-structured report on the given theme, guided by the user's intent.
Use only your internal knowledge. Start with a general overview, then cover the sub-topics and
key facts most relevant to the intent. Output clean Markdown, nothing else.`

// Expert produces a knowledge-based research report for the approved theme.
type Expert struct {
	client *llm.Client
	log    zerolog.Logger
}

func NewExpert(client *llm.Client, log zerolog.Logger) *Expert {
	return &Expert{client: client, log: log.With().Str("component", "research").Logger()}
}

func (e *Expert) Name() string      { return "ExpertResearcher" }
func (e *Expert) OutputKey() string { return ExpertKey }

func (e *Expert) Run(ctx context.Context, sess *types.WorkflowSession) error {
	theme, _ := sess.Artifacts.Text(types.KeyTheme)
	intent, _ := sess.Artifacts.Text(types.KeyIntent)

	user := fmt.Sprintf("## Theme\n%s\n\n## User's intent\n%s\n", theme, intent)
	report, err := e.client.Complete(ctx, expertSystemPrompt, user)
	if err != nil {
		return fmt.Errorf("expert research: %w", err)
	}

	e.log.Info().Int("chars", len(report)).Msg("expert report ready")
	sess.Artifacts.SetText(ExpertKey, report)
	return nil
}
