package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFillsEverything(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 60, cfg.Script.TargetDurationSec)
	assert.Equal(t, "wav", cfg.Voiceover.OutputFormat)
	assert.Equal(t, 1080, cfg.Images.Width)
	assert.Equal(t, 1920, cfg.Images.Height)
	assert.Empty(t, cfg.Videos.BaseURL, "video generation is opt-in")
	assert.Equal(t, 10, cfg.Videos.PollIntervalSec)
	assert.Equal(t, 24, cfg.Assembly.FPS)
	assert.Equal(t, "short_video.mp4", cfg.Assembly.OutputFilename)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "projects", cfg.Paths.Projects)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
llm:
  model: test-model
assembly:
  fps: 30
session:
  backend: redis
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-model", cfg.LLM.Model)
	assert.Equal(t, 30, cfg.Assembly.FPS)
	assert.Equal(t, "redis", cfg.Session.Backend)

	// Untouched fields still get defaults.
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "libx264", cfg.Assembly.Codec)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, os.IsNotExist(err))
}
