package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortform-studio/config"
	"shortform-studio/types"
)

type stubCollaborator struct {
	name  string
	key   string
	calls int
	run   func(sess *types.WorkflowSession) error
}

func (s *stubCollaborator) Name() string      { return s.name }
func (s *stubCollaborator) OutputKey() string { return s.key }

func (s *stubCollaborator) Run(_ context.Context, sess *types.WorkflowSession) error {
	s.calls++
	if s.run != nil {
		return s.run(sess)
	}
	sess.Artifacts.SetText(s.key, s.name+" output")
	return nil
}

type stubClassifier struct{ out string }

func (s stubClassifier) Classify(context.Context, string) (string, error) { return s.out, nil }

type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, string) (string, error) {
	return "", fmt.Errorf("model unavailable")
}

type fixture struct {
	controller *Controller
	stubs      map[string]*stubCollaborator
	sess       *types.WorkflowSession
}

func newFixture(t *testing.T, classifier Classifier) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.Projects = t.TempDir()

	themeStub := &stubCollaborator{name: "ThemeDefiner", key: "theme_intent", run: func(sess *types.WorkflowSession) error {
		return sess.Artifacts.Set("theme_intent", map[string]string{
			"theme":       "Deep Sea Creatures",
			"user_intent": "educational short about deep sea life",
		})
	}}

	stubs := map[string]*stubCollaborator{
		"theme":     themeStub,
		"expert":    {name: "ExpertResearcher", key: "expert_researcher_report"},
		"web":       {name: "WebResearcher", key: "web_researcher_report"},
		"compiler":  {name: "ResearchCompiler", key: "compiled_research_report"},
		"script":    {name: "ScriptWriter", key: "script"},
		"scenes":    {name: "SceneBreakdown", key: "scenes"},
		"imgPrompt": {name: "ImagePromptGenerator", key: "image_prompts"},
		"vidPrompt": {name: "VideoPromptGenerator", key: "video_prompts"},
		"voiceover": {name: "VoiceoverGenerator", key: "voiceovers_path"},
		"images":    {name: "ImageGenerator", key: "images_path"},
		"videos":    {name: "VideoGenerator", key: "videos_path"},
		"assembler": {name: "TimelineAssembler", key: "assembled_video_path"},
		"seo":       {name: "SEOOptimizer", key: "seo_optimized_content"},
	}

	col := Collaborators{
		Theme:            stubs["theme"],
		ExpertResearcher: stubs["expert"],
		WebResearcher:    stubs["web"],
		ResearchCompiler: stubs["compiler"],
		ScriptWriter:     stubs["script"],
		SceneBreakdown:   stubs["scenes"],
		ImagePrompts:     stubs["imgPrompt"],
		VideoPrompts:     stubs["vidPrompt"],
		Voiceover:        stubs["voiceover"],
		Images:           stubs["images"],
		Videos:           stubs["videos"],
		Assembler:        stubs["assembler"],
		SEO:              stubs["seo"],
	}

	return &fixture{
		controller: NewController(cfg, zerolog.Nop(), classifier, col),
		stubs:      stubs,
		sess: &types.WorkflowSession{
			ID:        "test-session",
			Stage:     types.StageThemeDefinition,
			Artifacts: types.Artifacts{},
		},
	}
}

func eventText(events []types.Event) string {
	var sb strings.Builder
	for _, ev := range events {
		sb.WriteString(ev.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

func errorCount(events []types.Event) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == types.EventError {
			n++
		}
	}
	return n
}

func TestFirstTurnProposesThemeAndWaits(t *testing.T) {
	f := newFixture(t, stubClassifier{out: "approved"})

	events := f.controller.Turn(context.Background(), f.sess, "make a video about deep sea creatures")

	assert.Equal(t, types.StageThemeDefinition, f.sess.Stage)
	assert.True(t, f.sess.AwaitingApproval)
	assert.Contains(t, eventText(events), "is this correct")
	assert.Equal(t, 1, f.stubs["theme"].calls)
	assert.Zero(t, f.stubs["expert"].calls, "research must not start before approval")
}

func TestThemeApprovalRunsResearchAndDraftsScript(t *testing.T) {
	f := newFixture(t, stubClassifier{out: "approved"})
	f.controller.Turn(context.Background(), f.sess, "deep sea video please")

	events := f.controller.Turn(context.Background(), f.sess, "yes")

	assert.Equal(t, types.StageScriptRefinement, f.sess.Stage)
	assert.True(t, f.sess.ThemeApproved)
	assert.True(t, f.sess.AwaitingApproval, "script draft needs approval")

	for _, key := range []string{"expert", "web", "compiler", "script"} {
		assert.Equal(t, 1, f.stubs[key].calls, "%s should run once", key)
	}

	theme, ok := f.sess.Artifacts.Text(types.KeyTheme)
	require.True(t, ok)
	assert.Equal(t, "Deep Sea Creatures", theme)

	wantRoot := filepath.Join(f.controller.cfg.Paths.Projects, "deep_sea_creatures")
	assert.Equal(t, wantRoot, f.sess.AssetRoot)
	info, err := os.Stat(wantRoot)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Contains(t, eventText(events), "Do you approve this script?")

	script, ok := f.sess.Artifacts.Text(types.KeyCurrentScript)
	require.True(t, ok)
	assert.Equal(t, "ScriptWriter output", script)
}

func TestThemeRejectionLoopsWithFeedback(t *testing.T) {
	f := newFixture(t, stubClassifier{out: "make it about sharks instead"})
	f.controller.Turn(context.Background(), f.sess, "deep sea video")

	f.controller.Turn(context.Background(), f.sess, "no, sharks")

	assert.Equal(t, types.StageThemeDefinition, f.sess.Stage)
	assert.False(t, f.sess.ThemeApproved)
	assert.Equal(t, 2, f.stubs["theme"].calls, "theme should be re-proposed")

	fb, ok := f.sess.Artifacts.Text(types.KeyUserFeedback)
	require.True(t, ok)
	assert.Equal(t, "make it about sharks instead", fb)
}

func TestScriptFeedbackRedrafts(t *testing.T) {
	f := newFixture(t, stubClassifier{out: "approved"})
	f.controller.Turn(context.Background(), f.sess, "deep sea video")
	f.controller.Turn(context.Background(), f.sess, "yes")
	require.Equal(t, types.StageScriptRefinement, f.sess.Stage)

	f.controller.classifier = stubClassifier{out: "tighten the hook"}
	f.controller.Turn(context.Background(), f.sess, "the opening drags")

	assert.Equal(t, types.StageScriptRefinement, f.sess.Stage)
	assert.Equal(t, 2, f.stubs["script"].calls)

	fb, ok := f.sess.Artifacts.Text(types.KeyUserFeedback)
	require.True(t, ok)
	assert.Equal(t, "tighten the hook", fb)
}

func TestScriptFailureAfterThemeApprovalResumesInsteadOfClassifying(t *testing.T) {
	f := newFixture(t, stubClassifier{out: "approved"})
	f.stubs["script"].run = func(*types.WorkflowSession) error { return fmt.Errorf("model timeout") }

	f.controller.Turn(context.Background(), f.sess, "deep sea video")
	events := f.controller.Turn(context.Background(), f.sess, "yes")

	require.Equal(t, types.StageScriptRefinement, f.sess.Stage)
	assert.Equal(t, 1, errorCount(events))
	assert.False(t, f.sess.AwaitingApproval, "no draft was presented")
	assert.False(t, f.sess.Artifacts.Has(types.KeyCurrentScript))

	// The writer recovers. The next input would classify as "approved", but
	// with no draft pending it must produce a draft, not pass the gate.
	f.stubs["script"].run = nil
	events = f.controller.Turn(context.Background(), f.sess, "yes")

	assert.Equal(t, types.StageScriptRefinement, f.sess.Stage, "approval gate must not be skipped")
	assert.True(t, f.sess.AwaitingApproval)
	assert.Contains(t, eventText(events), "Do you approve this script?")
	assert.True(t, f.sess.Artifacts.Has(types.KeyCurrentScript))
	assert.Equal(t, 1, f.stubs["expert"].calls, "completed research must not rerun")

	// Now the approval is real.
	f.controller.Turn(context.Background(), f.sess, "yes")
	assert.Equal(t, types.StageDone, f.sess.Stage)
	assert.True(t, f.sess.Artifacts.Has(types.KeyCurrentScript), "an approved script exists before asset generation")
}

func TestResearchFailureAfterThemeApprovalResumesChain(t *testing.T) {
	f := newFixture(t, stubClassifier{out: "approved"})
	f.stubs["compiler"].run = func(*types.WorkflowSession) error { return fmt.Errorf("model timeout") }

	f.controller.Turn(context.Background(), f.sess, "deep sea video")
	f.controller.Turn(context.Background(), f.sess, "yes")
	require.Equal(t, types.StageScriptRefinement, f.sess.Stage)
	require.False(t, f.sess.AwaitingApproval)

	f.stubs["compiler"].run = nil
	f.controller.Turn(context.Background(), f.sess, "go on")

	assert.True(t, f.sess.AwaitingApproval)
	assert.Equal(t, 1, f.stubs["expert"].calls)
	assert.Equal(t, 1, f.stubs["web"].calls)
	assert.Equal(t, 2, f.stubs["compiler"].calls)
	assert.Equal(t, 1, f.stubs["script"].calls)
}

func TestScriptApprovalRunsFullAssetChain(t *testing.T) {
	f := newFixture(t, stubClassifier{out: "approved"})
	f.controller.Turn(context.Background(), f.sess, "deep sea video")
	f.controller.Turn(context.Background(), f.sess, "yes")

	events := f.controller.Turn(context.Background(), f.sess, "yes, ship it")

	assert.Equal(t, types.StageDone, f.sess.Stage)
	assert.Zero(t, errorCount(events))

	for _, key := range []string{"scenes", "imgPrompt", "vidPrompt", "voiceover", "images", "videos", "assembler", "seo"} {
		assert.Equal(t, 1, f.stubs[key].calls, "%s should run once", key)
	}

	assert.Contains(t, eventText(events), "workflow finished")
	assert.True(t, f.sess.Artifacts.Has("assembled_video_path"))
}

func TestMissingOutputAbortsTurnButSessionResumes(t *testing.T) {
	f := newFixture(t, stubClassifier{out: "approved"})
	f.stubs["voiceover"].run = func(*types.WorkflowSession) error { return nil } // runs but writes nothing

	f.controller.Turn(context.Background(), f.sess, "deep sea video")
	f.controller.Turn(context.Background(), f.sess, "yes")
	events := f.controller.Turn(context.Background(), f.sess, "yes")

	assert.Equal(t, types.StageAssetGeneration, f.sess.Stage, "stage survives the abort")
	assert.Equal(t, 1, errorCount(events))
	assert.Contains(t, eventText(events), "did not produce 'voiceovers_path'")
	assert.Zero(t, f.stubs["images"].calls, "chain stops at the failed step")
}

func TestAssetGenerationResumeSkipsCompletedSteps(t *testing.T) {
	f := newFixture(t, stubClassifier{out: "approved"})
	f.stubs["voiceover"].run = func(*types.WorkflowSession) error { return nil }

	f.controller.Turn(context.Background(), f.sess, "deep sea video")
	f.controller.Turn(context.Background(), f.sess, "yes")
	f.controller.Turn(context.Background(), f.sess, "yes")
	require.Equal(t, types.StageAssetGeneration, f.sess.Stage)

	// Heal the voiceover stub and re-enter the stage.
	f.stubs["voiceover"].run = nil
	events := f.controller.Turn(context.Background(), f.sess, "continue")

	assert.Equal(t, types.StageDone, f.sess.Stage)
	assert.Contains(t, eventText(events), "already present, skipping")
	assert.Equal(t, 1, f.stubs["scenes"].calls, "completed steps must not rerun")
	assert.Equal(t, 2, f.stubs["voiceover"].calls)
	assert.Equal(t, 1, f.stubs["assembler"].calls)
}

func TestClassifierFailureTreatedAsNotApproved(t *testing.T) {
	f := newFixture(t, failingClassifier{})
	f.controller.Turn(context.Background(), f.sess, "deep sea video")

	f.controller.Turn(context.Background(), f.sess, "yes")

	assert.Equal(t, types.StageThemeDefinition, f.sess.Stage)
	assert.False(t, f.sess.ThemeApproved)
	assert.Equal(t, 2, f.stubs["theme"].calls)
}

func TestDoneStageReportsFinalPath(t *testing.T) {
	f := newFixture(t, stubClassifier{out: "approved"})
	f.sess.Stage = types.StageDone
	f.sess.Artifacts.SetText("assembled_video_path", "/tmp/out/short_video.mp4")

	events := f.controller.Turn(context.Background(), f.sess, "anything")

	assert.Contains(t, eventText(events), "already finished")
	assert.Contains(t, eventText(events), "/tmp/out/short_video.mp4")
}
