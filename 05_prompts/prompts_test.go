package prompts

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAlignToScenesMatchingCountPassesThrough(t *testing.T) {
	prompts := []string{"p1", "p2"}
	scenes := []string{"s1", "s2"}

	assert.Equal(t, prompts, alignToScenes(zerolog.Nop(), "image", prompts, scenes))
}

func TestAlignToScenesFillsGapsWithSceneText(t *testing.T) {
	prompts := []string{"p1"}
	scenes := []string{"s1", "s2", "s3"}

	got := alignToScenes(zerolog.Nop(), "image", prompts, scenes)
	assert.Equal(t, []string{"p1", "s2", "s3"}, got)
}

func TestAlignToScenesDropsExtras(t *testing.T) {
	prompts := []string{"p1", "p2", "p3"}
	scenes := []string{"s1", "s2"}

	got := alignToScenes(zerolog.Nop(), "video", prompts, scenes)
	assert.Equal(t, []string{"p1", "p2"}, got)
}

func TestAlignToScenesReplacesBlankPromptsWhileReconciling(t *testing.T) {
	prompts := []string{"  ", "p2"}
	scenes := []string{"s1", "s2", "s3"}

	got := alignToScenes(zerolog.Nop(), "image", prompts, scenes)
	assert.Equal(t, []string{"s1", "p2", "s3"}, got)
}

func TestNumberedScenes(t *testing.T) {
	got := numberedScenes([]string{"first", "second"})
	assert.Equal(t, "1. first\n2. second\n", got)
}
