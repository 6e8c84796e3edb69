package scenes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"shortform-studio/llm"
	"shortform-studio/types"
)

// Key is the artifact this collaborator writes.
const Key = "scenes"

// Output is the typed payload stored under Key: one narration chunk per
// scene, in script order. The list is immutable once produced; every later
// stage indexes into it.
type Output struct {
	Scenes []string `json:"scenes"`
}

const systemPrompt = `You are an expert video editor and storyboard artist.
Break the given narration script into a sequential list of scenes.

Rules:
- Each scene is one coherent, self-contained chunk of the narration, paced for
  roughly 8-20 seconds of speech.
- Scenes must stay in the script's original order and together cover the whole script.
- Split chunks that would run long; never merge distinct ideas.

Respond with ONLY valid JSON in this shape, no markdown, no explanation:
{"scenes": ["...", "..."]}`

// Breakdown splits the approved script into the scene list that drives every
// downstream generation step.
type Breakdown struct {
	client *llm.Client
	log    zerolog.Logger
}

func NewBreakdown(client *llm.Client, log zerolog.Logger) *Breakdown {
	return &Breakdown{client: client, log: log.With().Str("component", "scenes").Logger()}
}

func (b *Breakdown) Name() string      { return "SceneBreakdown" }
func (b *Breakdown) OutputKey() string { return Key }

func (b *Breakdown) Run(ctx context.Context, sess *types.WorkflowSession) error {
	script, ok := sess.Artifacts.Text(types.KeyCurrentScript)
	if !ok || script == "" {
		return fmt.Errorf("no approved script in session")
	}

	var out Output
	if err := b.client.CompleteJSON(ctx, systemPrompt, "Script to be processed:\n\n"+script, &out); err != nil {
		return fmt.Errorf("scene breakdown: %w", err)
	}
	if len(out.Scenes) == 0 {
		return fmt.Errorf("scene breakdown produced no scenes")
	}

	b.log.Info().Int("scenes", len(out.Scenes)).Msg("script broken into scenes")
	return sess.Artifacts.Set(Key, out)
}

// List reads the scene list back out of the session for downstream
// collaborators.
func List(sess *types.WorkflowSession) ([]string, error) {
	var out Output
	if err := sess.Artifacts.Get(Key, &out); err != nil {
		return nil, err
	}
	if len(out.Scenes) == 0 {
		return nil, fmt.Errorf("scene list is empty")
	}
	return out.Scenes, nil
}
