package videos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	prompts "shortform-studio/05_prompts"
	"shortform-studio/config"
	"shortform-studio/types"
)

// Key is the artifact this collaborator writes: one video directory per
// scene, in scene order.
const Key = "videos_path"

// Generator turns per-scene motion prompts into short clips through an
// async text-to-video API: submit a job, poll until it reports done, then
// download the result. Leaving videos.base_url empty in config disables
// generation entirely; the composer fills the timeline with stills instead.
type Generator struct {
	cfg        config.VideosConfig
	assembly   config.AssemblyConfig
	httpClient *http.Client
	log        zerolog.Logger
}

func NewGenerator(cfg config.VideosConfig, assembly config.AssemblyConfig, log zerolog.Logger) *Generator {
	return &Generator{
		cfg:        cfg,
		assembly:   assembly,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		log:        log.With().Str("component", "videos").Logger(),
	}
}

func (g *Generator) Name() string      { return "VideoGenerator" }
func (g *Generator) OutputKey() string { return Key }

type submitRequest struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	Duration    int    `json:"duration"`
	AspectRatio string `json:"aspect_ratio"`
}

type submitResponse struct {
	ID string `json:"id"`
}

type jobResponse struct {
	Status   string `json:"status"`
	VideoURL string `json:"video_url"`
	Error    string `json:"error"`
}

func (g *Generator) Run(ctx context.Context, sess *types.WorkflowSession) error {
	var out prompts.VideoOutput
	if err := sess.Artifacts.Get(prompts.VideoKey, &out); err != nil {
		return fmt.Errorf("videos: %w", err)
	}

	dirs := make([]string, 0, len(out.VideoPrompts))
	for i, prompt := range out.VideoPrompts {
		outDir := filepath.Join(sess.AssetRoot, fmt.Sprintf("scene_%d", i+1), g.assembly.VideosSubdir)
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("create videos dir: %w", err)
		}
		dirs = append(dirs, outDir)

		if g.cfg.BaseURL == "" {
			continue
		}

		outFile := filepath.Join(outDir, "video_1.mp4")
		g.log.Info().Int("scene", i+1).Int("total", len(out.VideoPrompts)).Msg("generating video clip")
		if err := g.generate(ctx, prompt, outFile); err != nil {
			g.log.Error().Err(err).Int("scene", i+1).Msg("video generation failed, continuing with stills")
			continue
		}
	}

	if g.cfg.BaseURL == "" {
		g.log.Info().Msg("videos.base_url not set, skipping video generation")
	}
	return sess.Artifacts.Set(Key, dirs)
}

func (g *Generator) generate(ctx context.Context, prompt, outFile string) error {
	jobID, err := g.submit(ctx, prompt)
	if err != nil {
		return fmt.Errorf("submit job: %w", err)
	}

	videoURL, err := g.poll(ctx, jobID)
	if err != nil {
		return fmt.Errorf("job %s: %w", jobID, err)
	}

	return g.download(ctx, videoURL, outFile)
}

func (g *Generator) submit(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(submitRequest{
		Model:       g.cfg.Model,
		Prompt:      prompt,
		Duration:    g.cfg.DurationSec,
		AspectRatio: g.cfg.AspectRatio,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.cfg.BaseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := os.Getenv("VIDEO_API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
	}

	var sub submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return "", err
	}
	if sub.ID == "" {
		return "", fmt.Errorf("no job id in response")
	}
	return sub.ID, nil
}

func (g *Generator) poll(ctx context.Context, jobID string) (string, error) {
	interval := time.Duration(g.cfg.PollIntervalSec) * time.Second
	for polls := 0; g.cfg.MaxPolls == 0 || polls < g.cfg.MaxPolls; polls++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}

		job, err := g.checkJob(ctx, jobID)
		if err != nil {
			g.log.Warn().Err(err).Str("job", jobID).Msg("poll failed, retrying")
			continue
		}

		switch job.Status {
		case "completed", "succeeded", "done":
			if job.VideoURL == "" {
				return "", fmt.Errorf("job completed without a video url")
			}
			return job.VideoURL, nil
		case "failed", "error", "cancelled":
			return "", fmt.Errorf("job ended with status %q: %s", job.Status, job.Error)
		default:
			g.log.Debug().Str("job", jobID).Str("status", job.Status).Msg("video job pending")
		}
	}
	return "", fmt.Errorf("gave up after %d polls", g.cfg.MaxPolls)
}

func (g *Generator) checkJob(ctx context.Context, jobID string) (*jobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", g.cfg.BaseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	if key := os.Getenv("VIDEO_API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d while polling", resp.StatusCode)
	}

	var job jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (g *Generator) download(ctx context.Context, videoURL, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", videoURL, nil)
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d downloading video", resp.StatusCode)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(outFile)
		return err
	}
	return nil
}
