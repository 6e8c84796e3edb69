package voiceover

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	scenes "shortform-studio/04_scenes"
	"shortform-studio/config"
	"shortform-studio/types"
)

// Key is the artifact this collaborator writes: one voiceover directory per
// scene, in scene order.
const Key = "voiceovers_path"

// Generator synthesizes one narration audio file per scene by shelling out to
// a TTS engine. Set TTS_COMMAND to a command accepting
// --text "..." --output path; when unset, edge-tts is used as a fallback.
type Generator struct {
	cfg      config.VoiceoverConfig
	assembly config.AssemblyConfig
	log      zerolog.Logger
}

func NewGenerator(cfg config.VoiceoverConfig, assembly config.AssemblyConfig, log zerolog.Logger) *Generator {
	return &Generator{cfg: cfg, assembly: assembly, log: log.With().Str("component", "voiceover").Logger()}
}

func (g *Generator) Name() string      { return "VoiceoverGenerator" }
func (g *Generator) OutputKey() string { return Key }

func (g *Generator) Run(ctx context.Context, sess *types.WorkflowSession) error {
	sceneTexts, err := scenes.List(sess)
	if err != nil {
		return fmt.Errorf("voiceover: %w", err)
	}

	ttsCmd, err := resolveTTSCommand()
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(sceneTexts))
	for i, text := range sceneTexts {
		outDir := filepath.Join(sess.AssetRoot, fmt.Sprintf("scene_%d", i+1), g.assembly.VoiceoverSubdir)
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("create voiceover dir: %w", err)
		}
		dirs = append(dirs, outDir)

		outFile := filepath.Join(outDir, "voiceover."+g.cfg.OutputFormat)
		g.log.Info().Int("scene", i+1).Int("total", len(sceneTexts)).Msg("generating voiceover")

		// A single failed scene is skipped, not fatal; the composer will skip
		// the scene too when no audio shows up.
		if err := g.generateSceneAudio(ctx, ttsCmd, text, outFile); err != nil {
			g.log.Error().Err(err).Int("scene", i+1).Msg("voiceover generation failed, skipping scene")
			continue
		}
	}

	return sess.Artifacts.Set(Key, dirs)
}

func resolveTTSCommand() (string, error) {
	ttsCmd := strings.TrimSpace(os.Getenv("TTS_COMMAND"))
	if ttsCmd != "" {
		return ttsCmd, nil
	}
	if _, err := exec.LookPath("edge-tts"); err == nil {
		return "edge-tts", nil
	}
	return "", fmt.Errorf("no TTS engine found: set TTS_COMMAND or install edge-tts")
}

func (g *Generator) generateSceneAudio(ctx context.Context, ttsCmd, text, outFile string) error {
	newCmd := func() *exec.Cmd {
		switch {
		case ttsCmd == "edge-tts":
			return exec.CommandContext(ctx, "edge-tts",
				"--voice", g.cfg.Voice,
				"--text", text,
				"--write-media", outFile,
			)
		case strings.HasSuffix(ttsCmd, ".py"):
			return exec.CommandContext(ctx, "python3", ttsCmd,
				"--text", text,
				"--output", outFile,
			)
		default:
			return exec.CommandContext(ctx, ttsCmd,
				"--text", text,
				"--output", outFile,
			)
		}
	}

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		cmd := newCmd()
		cmd.Stderr = os.Stderr
		if err = cmd.Run(); err == nil {
			return nil
		}
		g.log.Warn().Err(err).Int("attempt", attempt).Msg("TTS attempt failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 2 * time.Second):
		}
	}
	return err
}
