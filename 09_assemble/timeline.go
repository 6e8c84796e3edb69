package assemble

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shortform-studio/config"
	"shortform-studio/types"
)

// Key is the artifact this collaborator writes: the path of the final
// assembled video.
const Key = "assembled_video_path"

// ErrNothingToAssemble is returned when no scene could produce a video.
var ErrNothingToAssemble = errors.New("no scene videos to assemble")

// Assembler walks a project's scene directories, composes each scene, and
// concatenates them into the final short video.
type Assembler struct {
	cfg      config.AssemblyConfig
	composer *Composer
	runner   CommandRunner
	log      zerolog.Logger
}

func NewAssembler(cfg config.AssemblyConfig, width, height int, log zerolog.Logger) *Assembler {
	prober := FFprobe{}
	runner := ExecRunner{}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Assembler{
		cfg:      cfg,
		composer: NewComposer(cfg, width, height, prober, runner, rng, log),
		runner:   runner,
		log:      log.With().Str("component", "assembler").Logger(),
	}
}

// NewAssemblerWith injects the composer and runner, used by tests.
func NewAssemblerWith(cfg config.AssemblyConfig, composer *Composer, runner CommandRunner, log zerolog.Logger) *Assembler {
	return &Assembler{cfg: cfg, composer: composer, runner: runner, log: log}
}

func (a *Assembler) Name() string      { return "TimelineAssembler" }
func (a *Assembler) OutputKey() string { return Key }

func (a *Assembler) Run(ctx context.Context, sess *types.WorkflowSession) error {
	out, err := a.AssembleRoot(ctx, sess.AssetRoot)
	if err != nil {
		return err
	}
	return sess.Artifacts.SetText(Key, out)
}

// AssembleRoot composes every scene under root and concatenates the results
// into root/<output_subdir>/<output_filename>. It is also the entry point for
// the standalone assemble command.
func (a *Assembler) AssembleRoot(ctx context.Context, root string) (string, error) {
	scenes, err := DiscoverScenes(root, a.cfg)
	if err != nil {
		return "", err
	}
	if len(scenes) == 0 {
		return "", ErrNothingToAssemble
	}

	var sceneVideos []string
	for _, scene := range scenes {
		out, err := a.composer.ComposeScene(ctx, scene)
		if err != nil {
			return "", err
		}
		if out == "" {
			continue
		}
		sceneVideos = append(sceneVideos, out)
	}
	if len(sceneVideos) == 0 {
		return "", ErrNothingToAssemble
	}

	outDir := filepath.Join(root, a.cfg.OutputSubdir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	outFile := filepath.Join(outDir, a.cfg.OutputFilename)
	if err := a.concatScenes(ctx, sceneVideos, outDir, outFile); err != nil {
		return "", err
	}

	a.log.Info().Str("file", outFile).Int("scenes", len(sceneVideos)).Msg("final video assembled")
	return outFile, nil
}

func (a *Assembler) concatScenes(ctx context.Context, sceneVideos []string, outDir, outFile string) error {
	listFile := filepath.Join(outDir, "scenes_concat.txt")
	var lines []string
	for _, v := range sceneVideos {
		abs, err := filepath.Abs(v)
		if err != nil {
			abs = v
		}
		lines = append(lines, fmt.Sprintf("file '%s'", abs))
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return err
	}

	// Re-encode rather than stream-copy: scene takes can differ in encoder
	// settings, and a copy concat produces broken timestamps.
	err := a.runner.Run(ctx, "ffmpeg", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-r", fmt.Sprintf("%d", a.cfg.FPS),
		"-c:v", a.cfg.Codec,
		"-preset", "fast",
		"-crf", "22",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		outFile,
	)
	if err != nil {
		return fmt.Errorf("concat scenes: %w", err)
	}
	return nil
}
