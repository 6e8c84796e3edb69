package prompts

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	scenes "shortform-studio/04_scenes"
	"shortform-studio/llm"
	"shortform-studio/types"
)

// VideoKey is the artifact the video prompt generator writes.
const VideoKey = "video_prompts"

// VideoOutput is the typed payload stored under VideoKey, one prompt per
// scene.
type VideoOutput struct {
	VideoPrompts []string `json:"video_prompts"`
}

const videoSystemPrompt = `You are an expert in cinematography and prompt engineering for text-to-video models.
For each scene of the video, craft one text-to-video generation prompt describing the shot:
subject, action, camera movement, lighting, and mood. Keep each prompt to a single continuous shot
of a few seconds.

Rules:
- Exactly one prompt per scene, in the same order.
- Describe motion, not a still image.

Respond with ONLY valid JSON in this shape, no markdown, no explanation:
{"video_prompts": ["...", "..."]}`

// VideoGenerator writes one text-to-video prompt per scene.
type VideoGenerator struct {
	client *llm.Client
	log    zerolog.Logger
}

func NewVideoGenerator(client *llm.Client, log zerolog.Logger) *VideoGenerator {
	return &VideoGenerator{client: client, log: log.With().Str("component", "prompts").Logger()}
}

func (g *VideoGenerator) Name() string      { return "VideoPromptGenerator" }
func (g *VideoGenerator) OutputKey() string { return VideoKey }

func (g *VideoGenerator) Run(ctx context.Context, sess *types.WorkflowSession) error {
	sceneTexts, err := scenes.List(sess)
	if err != nil {
		return fmt.Errorf("video prompts: %w", err)
	}

	var out VideoOutput
	user := "Scenes from the script:\n\n" + numberedScenes(sceneTexts)
	if err := g.client.CompleteJSON(ctx, videoSystemPrompt, user, &out); err != nil {
		return fmt.Errorf("video prompts: %w", err)
	}

	out.VideoPrompts = alignToScenes(g.log, "video", out.VideoPrompts, sceneTexts)
	g.log.Info().Int("prompts", len(out.VideoPrompts)).Msg("video prompts ready")
	return sess.Artifacts.Set(VideoKey, out)
}
