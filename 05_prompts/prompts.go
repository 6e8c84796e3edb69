package prompts

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Prompt generators are 1:1 with scenes. The model occasionally returns the
// wrong count; reconcile rather than abort: extras are dropped, gaps are
// filled with the scene's own narration, which every downstream generator
// accepts as a prompt.
func alignToScenes(log zerolog.Logger, kind string, prompts, sceneTexts []string) []string {
	if len(prompts) == len(sceneTexts) {
		return prompts
	}

	log.Warn().
		Str("kind", kind).
		Int("got", len(prompts)).
		Int("want", len(sceneTexts)).
		Msg("prompt count mismatch, reconciling")

	aligned := make([]string, len(sceneTexts))
	for i := range sceneTexts {
		if i < len(prompts) && strings.TrimSpace(prompts[i]) != "" {
			aligned[i] = prompts[i]
		} else {
			aligned[i] = sceneTexts[i]
		}
	}
	return aligned
}

func numberedScenes(sceneTexts []string) string {
	var sb strings.Builder
	for i, s := range sceneTexts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}
	return sb.String()
}
