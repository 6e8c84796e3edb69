package seo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"shortform-studio/llm"
	"shortform-studio/types"
)

// Key is the artifact this collaborator writes.
const Key = "seo_optimized_content"

// Output is the typed payload stored under Key.
type Output struct {
	VideoTitle       string `json:"video_title"`
	VideoDescription string `json:"video_description"`
}

const systemPrompt = `You are a YouTube SEO expert specializing in short-form video.
Given the final video script, write:
- video_title: a compelling, curiosity-driven title under 70 characters.
- video_description: a 2-3 sentence description with relevant keywords and 3-5 hashtags at the end.

Respond with ONLY valid JSON in this shape, no markdown, no explanation:
{"video_title": "...", "video_description": "..."}`

// Optimizer derives upload-ready title and description from the approved
// script.
type Optimizer struct {
	client *llm.Client
	log    zerolog.Logger
}

func NewOptimizer(client *llm.Client, log zerolog.Logger) *Optimizer {
	return &Optimizer{client: client, log: log.With().Str("component", "seo").Logger()}
}

func (o *Optimizer) Name() string      { return "SEOOptimizer" }
func (o *Optimizer) OutputKey() string { return Key }

func (o *Optimizer) Run(ctx context.Context, sess *types.WorkflowSession) error {
	script, ok := sess.Artifacts.Text(types.KeyCurrentScript)
	if !ok {
		return fmt.Errorf("seo: artifact %q not found", types.KeyCurrentScript)
	}

	var out Output
	if err := o.client.CompleteJSON(ctx, systemPrompt, "Video script:\n\n"+script, &out); err != nil {
		return fmt.Errorf("seo: %w", err)
	}
	if out.VideoTitle == "" {
		return fmt.Errorf("seo: model returned an empty title")
	}

	o.log.Info().Str("title", out.VideoTitle).Msg("seo content ready")
	return sess.Artifacts.Set(Key, out)
}
