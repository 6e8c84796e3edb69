package research

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"shortform-studio/llm"
	"shortform-studio/types"
)

const compilerSystemPrompt = `You are a research editor. Merge the expert report and the web coverage below
into one compiled research report that a scriptwriter can work from directly.
Keep the facts, drop the repetition, and order the material by how useful it is
for a one-minute video on the theme. Output clean Markdown, nothing else.`

// Compiler merges the expert and web reports into the single compiled report
// the script writer consumes.
type Compiler struct {
	client *llm.Client
	log    zerolog.Logger
}

func NewCompiler(client *llm.Client, log zerolog.Logger) *Compiler {
	return &Compiler{client: client, log: log.With().Str("component", "research").Logger()}
}

func (c *Compiler) Name() string      { return "ResearchCompiler" }
func (c *Compiler) OutputKey() string { return CompiledKey }

func (c *Compiler) Run(ctx context.Context, sess *types.WorkflowSession) error {
	theme, _ := sess.Artifacts.Text(types.KeyTheme)
	intent, _ := sess.Artifacts.Text(types.KeyIntent)
	expert, _ := sess.Artifacts.Text(ExpertKey)
	web, _ := sess.Artifacts.Text(WebKey)

	user := fmt.Sprintf(
		"## Theme\n%s\n\n## User's intent\n%s\n\n## Expert report\n%s\n\n## Web coverage\n%s\n",
		theme, intent, expert, web,
	)

	report, err := c.client.Complete(ctx, compilerSystemPrompt, user)
	if err != nil {
		return fmt.Errorf("compile research: %w", err)
	}

	c.log.Info().Int("chars", len(report)).Msg("compiled report ready")
	sess.Artifacts.SetText(CompiledKey, report)
	return nil
}
