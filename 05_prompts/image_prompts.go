package prompts

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	scenes "shortform-studio/04_scenes"
	"shortform-studio/llm"
	"shortform-studio/types"
)

// ImageKey is the artifact the image prompt generator writes.
const ImageKey = "image_prompts"

// ImageOutput is the typed payload stored under ImageKey, one prompt per
// scene.
type ImageOutput struct {
	ImagePrompts []string `json:"image_prompts"`
}

const imageSystemPrompt = `You are an expert in visual storytelling and prompt engineering for AI image models.
For each scene of the video, craft one highly descriptive image generation prompt capturing the
scene's visual elements, style, and mood. Do not just repeat the scene text.

Rules:
- Exactly one prompt per scene, in the same order.
- Prompts must be rich in visual detail and optimized for a diffusion model.

Respond with ONLY valid JSON in this shape, no markdown, no explanation:
{"image_prompts": ["...", "..."]}`

// ImageGenerator writes one image prompt per scene.
type ImageGenerator struct {
	client *llm.Client
	log    zerolog.Logger
}

func NewImageGenerator(client *llm.Client, log zerolog.Logger) *ImageGenerator {
	return &ImageGenerator{client: client, log: log.With().Str("component", "prompts").Logger()}
}

func (g *ImageGenerator) Name() string      { return "ImagePromptGenerator" }
func (g *ImageGenerator) OutputKey() string { return ImageKey }

func (g *ImageGenerator) Run(ctx context.Context, sess *types.WorkflowSession) error {
	sceneTexts, err := scenes.List(sess)
	if err != nil {
		return fmt.Errorf("image prompts: %w", err)
	}

	var out ImageOutput
	user := "Scenes from the script:\n\n" + numberedScenes(sceneTexts)
	if err := g.client.CompleteJSON(ctx, imageSystemPrompt, user, &out); err != nil {
		return fmt.Errorf("image prompts: %w", err)
	}

	out.ImagePrompts = alignToScenes(g.log, "image", out.ImagePrompts, sceneTexts)
	g.log.Info().Int("prompts", len(out.ImagePrompts)).Msg("image prompts ready")
	return sess.Artifacts.Set(ImageKey, out)
}
