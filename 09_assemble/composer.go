package assemble

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"shortform-studio/config"
)

// ImageSlot is one still scheduled into a scene timeline: how long it plays
// and which motion treatment it gets.
type ImageSlot struct {
	Path     string
	Duration float64
	Effect   Effect
	Reverse  bool
}

// ScenePlan is the pure scheduling result for one scene and one voiceover:
// all generated clips play in full, and stills split whatever narration time
// the clips leave uncovered.
type ScenePlan struct {
	TargetDuration float64
	Videos         []string
	Images         []ImageSlot
}

// PlanScene computes the timeline for a scene. Video clips are always kept
// whole; if they already cover the narration, stills are dropped entirely.
// Otherwise the remaining time is split evenly across the stills, each with a
// randomly picked effect and an independent coin flip on playing reversed.
func PlanScene(voiceoverDur float64, videos []string, videoDurs []float64, images []string, rng *rand.Rand) ScenePlan {
	plan := ScenePlan{TargetDuration: voiceoverDur, Videos: videos}

	var covered float64
	for _, d := range videoDurs {
		covered += d
	}

	remaining := voiceoverDur - covered
	if remaining <= 0 || len(images) == 0 {
		return plan
	}

	perImage := remaining / float64(len(images))
	for _, img := range images {
		plan.Images = append(plan.Images, ImageSlot{
			Path:     img,
			Duration: perImage,
			Effect:   Pick(rng),
			Reverse:  rng.Float64() < 0.5,
		})
	}
	return plan
}

// Composer renders one scene's assets into a finished scene video with the
// voiceover as its only audio track.
type Composer struct {
	cfg    config.AssemblyConfig
	width  int
	height int
	prober DurationProber
	runner CommandRunner
	rng    *rand.Rand
	log    zerolog.Logger
}

func NewComposer(cfg config.AssemblyConfig, width, height int, prober DurationProber, runner CommandRunner, rng *rand.Rand, log zerolog.Logger) *Composer {
	return &Composer{
		cfg:    cfg,
		width:  width,
		height: height,
		prober: prober,
		runner: runner,
		rng:    rng,
		log:    log.With().Str("component", "composer").Logger(),
	}
}

// ComposeScene builds the scene video. When several voiceover takes exist the
// scene is rendered once per take and the last one wins; earlier renders are
// left on disk for inspection. Scenes with no narration or no visuals are
// skipped and return an empty path.
func (c *Composer) ComposeScene(ctx context.Context, scene SceneAssets) (string, error) {
	if len(scene.Voiceovers) == 0 {
		c.log.Warn().Int("scene", scene.Index).Msg("no voiceover found, skipping scene")
		return "", nil
	}
	if len(scene.Videos) == 0 && len(scene.Images) == 0 {
		c.log.Warn().Int("scene", scene.Index).Msg("no visuals found, skipping scene")
		return "", nil
	}

	workDir := filepath.Join(scene.Dir, c.cfg.OutputSubdir)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("create scene output dir: %w", err)
	}

	var final string
	for k, voiceover := range scene.Voiceovers {
		out, err := c.composeTake(ctx, scene, voiceover, k+1, workDir)
		if err != nil {
			return "", fmt.Errorf("scene %d take %d: %w", scene.Index, k+1, err)
		}
		final = out
	}
	return final, nil
}

func (c *Composer) composeTake(ctx context.Context, scene SceneAssets, voiceover string, take int, workDir string) (string, error) {
	voDur, err := c.prober.Duration(ctx, voiceover)
	if err != nil {
		return "", err
	}

	var videos []string
	var videoDurs []float64
	for _, v := range scene.Videos {
		d, err := c.prober.Duration(ctx, v)
		if err != nil {
			c.log.Warn().Err(err).Str("file", v).Msg("cannot probe video clip, dropping it")
			continue
		}
		videos = append(videos, v)
		videoDurs = append(videoDurs, d)
	}

	plan := PlanScene(voDur, videos, videoDurs, scene.Images, c.rng)
	c.log.Info().
		Int("scene", scene.Index).
		Int("take", take).
		Float64("narration_sec", voDur).
		Int("videos", len(plan.Videos)).
		Int("stills", len(plan.Images)).
		Msg("composing scene")

	var segments []string
	segments = append(segments, plan.Videos...)

	for j, slot := range plan.Images {
		clip, err := c.renderStill(ctx, slot, take, j, workDir)
		if err != nil {
			c.log.Warn().Err(err).Str("image", slot.Path).Msg("still render failed, dropping it")
			continue
		}
		segments = append(segments, clip)
	}

	if len(segments) == 0 {
		return "", fmt.Errorf("no usable visual segments")
	}

	visual, err := c.concatSegments(ctx, segments, take, workDir)
	if err != nil {
		return "", err
	}

	outFile := filepath.Join(workDir, fmt.Sprintf("voiceover_%d_%s", take, c.cfg.OutputFilename))
	if err := c.muxToNarration(ctx, visual, voiceover, voDur, outFile); err != nil {
		return "", err
	}
	return outFile, nil
}

// renderStill turns one image into a clip with its planned effect. If the
// effect render fails (usually an exotic source image), the still is retried
// as a plain static clip before giving up.
func (c *Composer) renderStill(ctx context.Context, slot ImageSlot, take, idx int, workDir string) (string, error) {
	outFile := filepath.Join(workDir, fmt.Sprintf("still_%d_%02d.mp4", take, idx))

	render := func(effect Effect) error {
		return c.runner.Run(ctx, "ffmpeg", "-y",
			"-loop", "1",
			"-i", slot.Path,
			"-vf", effect.Filter(slot.Duration, c.cfg.FPS, c.width, c.height),
			"-t", fmt.Sprintf("%.3f", slot.Duration),
			"-r", fmt.Sprintf("%d", c.cfg.FPS),
			"-c:v", c.cfg.Codec,
			"-preset", "fast",
			"-crf", "23",
			"-pix_fmt", "yuv420p",
			"-an",
			outFile,
		)
	}

	if err := render(slot.Effect); err != nil {
		c.log.Warn().Err(err).Str("effect", string(slot.Effect)).Msg("effect render failed, falling back to static still")
		if err := render(EffectNone); err != nil {
			return "", err
		}
	}

	if slot.Reverse {
		reversed := filepath.Join(workDir, fmt.Sprintf("still_%d_%02d_rev.mp4", take, idx))
		err := c.runner.Run(ctx, "ffmpeg", "-y",
			"-i", outFile,
			"-vf", "reverse",
			"-c:v", c.cfg.Codec,
			"-preset", "fast",
			"-crf", "23",
			"-pix_fmt", "yuv420p",
			"-an",
			reversed,
		)
		if err != nil {
			c.log.Warn().Err(err).Msg("reverse pass failed, keeping forward clip")
			return outFile, nil
		}
		return reversed, nil
	}
	return outFile, nil
}

// concatSegments joins clips through a concat list file, re-encoding so mixed
// sources (generated clips, still renders) conform to one frame geometry.
func (c *Composer) concatSegments(ctx context.Context, segments []string, take int, workDir string) (string, error) {
	listFile := filepath.Join(workDir, fmt.Sprintf("concat_%d.txt", take))
	var lines []string
	for _, seg := range segments {
		abs, err := filepath.Abs(seg)
		if err != nil {
			abs = seg
		}
		lines = append(lines, fmt.Sprintf("file '%s'", abs))
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return "", err
	}

	outFile := filepath.Join(workDir, fmt.Sprintf("visual_%d.mp4", take))
	err := c.runner.Run(ctx, "ffmpeg", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
			c.width, c.height, c.width, c.height),
		"-r", fmt.Sprintf("%d", c.cfg.FPS),
		"-c:v", c.cfg.Codec,
		"-preset", "fast",
		"-crf", "22",
		"-pix_fmt", "yuv420p",
		"-an",
		outFile,
	)
	if err != nil {
		return "", fmt.Errorf("concat scene segments: %w", err)
	}
	return outFile, nil
}

// muxToNarration reconciles the visual track to the narration length (trim
// when longer, loop when shorter) and muxes the voiceover in as the only
// audio stream.
func (c *Composer) muxToNarration(ctx context.Context, visual, voiceover string, voDur float64, outFile string) error {
	visualDur, err := c.prober.Duration(ctx, visual)
	if err != nil {
		return err
	}

	args := []string{"-y"}
	if visualDur > 0 && visualDur < voDur {
		loops := int(voDur/visualDur) + 1
		args = append(args, "-stream_loop", fmt.Sprintf("%d", loops))
	}
	args = append(args,
		"-i", visual,
		"-i", voiceover,
		"-t", fmt.Sprintf("%.3f", voDur),
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", c.cfg.Codec,
		"-preset", "fast",
		"-crf", "22",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		outFile,
	)

	if err := c.runner.Run(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("mux scene audio: %w", err)
	}
	return nil
}
