package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	prompts "shortform-studio/05_prompts"
	"shortform-studio/config"
	"shortform-studio/types"
)

// Key is the artifact this collaborator writes: one image directory per
// scene, in scene order.
const Key = "images_path"

// Generator fetches AI-generated stills from a pollinations-style URL API:
// GET <base>/prompt/<encoded prompt>?width=..&height=..&model=..&seed=..
// No API key required.
type Generator struct {
	cfg        config.ImagesConfig
	assembly   config.AssemblyConfig
	httpClient *http.Client
	log        zerolog.Logger
}

func NewGenerator(cfg config.ImagesConfig, assembly config.AssemblyConfig, log zerolog.Logger) *Generator {
	return &Generator{
		cfg:        cfg,
		assembly:   assembly,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log.With().Str("component", "images").Logger(),
	}
}

func (g *Generator) Name() string      { return "ImageGenerator" }
func (g *Generator) OutputKey() string { return Key }

func (g *Generator) Run(ctx context.Context, sess *types.WorkflowSession) error {
	var out prompts.ImageOutput
	if err := sess.Artifacts.Get(prompts.ImageKey, &out); err != nil {
		return fmt.Errorf("images: %w", err)
	}

	dirs := make([]string, 0, len(out.ImagePrompts))
	for i, prompt := range out.ImagePrompts {
		outDir := filepath.Join(sess.AssetRoot, fmt.Sprintf("scene_%d", i+1), g.assembly.ImagesSubdir)
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("create images dir: %w", err)
		}
		dirs = append(dirs, outDir)

		for k := 1; k <= g.cfg.PerScene; k++ {
			outFile := filepath.Join(outDir, fmt.Sprintf("image_%d.jpg", k))
			// Deterministic per-scene seed keeps reruns reproducible.
			seed := i*42 + k*7
			if err := g.fetch(ctx, prompt, seed, outFile); err != nil {
				g.log.Error().Err(err).Int("scene", i+1).Int("variant", k).Msg("image fetch failed, continuing")
				continue
			}
			g.log.Info().Int("scene", i+1).Str("file", outFile).Msg("image saved")
		}
	}

	return sess.Artifacts.Set(Key, dirs)
}

func (g *Generator) fetch(ctx context.Context, prompt string, seed int, outFile string) error {
	imageURL := fmt.Sprintf(
		"%s/prompt/%s?width=%d&height=%d&nologo=true&model=%s&seed=%d",
		g.cfg.BaseURL, url.PathEscape(prompt), g.cfg.Width, g.cfg.Height, g.cfg.Model, seed,
	)

	// Retry a few times; the free endpoints time out now and then.
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		if err = g.download(ctx, imageURL, outFile); err == nil {
			return nil
		}
		g.log.Warn().Err(err).Int("attempt", attempt).Msg("image download failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 3 * time.Second):
		}
	}
	return fmt.Errorf("image fetch failed after 3 attempts: %w", err)
}

func (g *Generator) download(ctx context.Context, imageURL, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ShortformStudio/1.0)")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from image endpoint", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	// Tiny responses are error pages, not images.
	if len(data) < 100 {
		return fmt.Errorf("response too small (%d bytes)", len(data))
	}

	return os.WriteFile(outFile, data, 0644)
}
