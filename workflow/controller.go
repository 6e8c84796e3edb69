package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"shortform-studio/config"
	"shortform-studio/types"
)

const controllerName = "StageController"

// Collaborators holds every generation step the controller sequences, in the
// order the workflow invokes them. Uploader may be nil when uploading is
// disabled; everything else is required.
type Collaborators struct {
	Theme            Collaborator
	ExpertResearcher Collaborator
	WebResearcher    Collaborator
	ResearchCompiler Collaborator
	ScriptWriter     Collaborator
	SceneBreakdown   Collaborator
	ImagePrompts     Collaborator
	VideoPrompts     Collaborator
	Voiceover        Collaborator
	Images           Collaborator
	Videos           Collaborator
	Assembler        Collaborator
	SEO              Collaborator
	Uploader         Collaborator
}

// Controller is the workflow state machine. It holds no per-conversation
// state of its own: each Turn receives the session loaded for this
// conversation, mutates it, and returns the ordered events the turn produced.
type Controller struct {
	cfg        *config.Config
	col        Collaborators
	classifier Classifier
	log        zerolog.Logger
}

func NewController(cfg *config.Config, log zerolog.Logger, classifier Classifier, col Collaborators) *Controller {
	return &Controller{
		cfg:        cfg,
		col:        col,
		classifier: classifier,
		log:        log.With().Str("component", "workflow").Logger(),
	}
}

// Turn processes one user input against the session's current stage.
// Contract-level failures (a collaborator missing its output key) abort the
// turn with an error event but leave the session resumable; they are not
// returned as Go errors.
func (c *Controller) Turn(ctx context.Context, sess *types.WorkflowSession, input string) []types.Event {
	input = strings.TrimSpace(input)
	sess.Artifacts.SetText(types.KeyUserInput, input)

	t := &turn{c: c, sess: sess}

	switch sess.Stage {
	case types.StageThemeDefinition:
		t.themeDefinition(ctx, input)
	case types.StageScriptRefinement:
		t.scriptRefinement(ctx, input)
	case types.StageAssetGeneration:
		t.assetGeneration(ctx)
	case types.StageDone:
		path, _ := sess.Artifacts.Text(c.col.Assembler.OutputKey())
		t.status(fmt.Sprintf("This workflow already finished. Video stored at: '%s'.", path))
	}

	return t.events
}

// turn accumulates the events of a single Turn invocation.
type turn struct {
	c      *Controller
	sess   *types.WorkflowSession
	events []types.Event
}

func (t *turn) status(msg string) {
	t.events = append(t.events, types.Status(controllerName, msg))
}

func (t *turn) errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	t.c.log.Error().Msg(msg)
	t.events = append(t.events, types.Error(controllerName, msg))
}

// run invokes one collaborator and validates its output contract. It reports
// false when the turn must abort.
func (t *turn) run(ctx context.Context, col Collaborator) bool {
	t.c.log.Info().Str("collaborator", col.Name()).Msg("running collaborator")

	if err := col.Run(ctx, t.sess); err != nil {
		t.errorf("%s failed: %v", col.Name(), err)
		return false
	}
	if !t.sess.Artifacts.Has(col.OutputKey()) {
		t.c.log.Error().Err(ErrMissingArtifact).Str("collaborator", col.Name()).Str("key", col.OutputKey()).Msg("output contract violated")
		t.events = append(t.events, types.Error(controllerName,
			fmt.Sprintf("%s did not produce '%s' in the artifact store. Aborting this turn.", col.Name(), col.OutputKey())))
		return false
	}
	return true
}

func (t *turn) classify(ctx context.Context, input string) Decision {
	raw, err := t.c.classifier.Classify(ctx, input)
	if err != nil {
		t.c.log.Warn().Err(err).Msg("approval classifier failed, treating as not approved")
		return Decision{}
	}
	return ParseDecision(raw)
}

func (t *turn) themeDefinition(ctx context.Context, input string) {
	sess := t.sess

	if !sess.AwaitingApproval {
		t.defineThemeAndAskForFeedback(ctx)
		return
	}

	decision := t.classify(ctx, input)
	if !decision.Approved {
		sess.ThemeApproved = false
		if decision.Feedback != "" {
			sess.Artifacts.SetText(types.KeyUserFeedback, decision.Feedback)
		}
		t.defineThemeAndAskForFeedback(ctx)
		return
	}

	sess.ThemeApproved = true
	sess.AwaitingApproval = false
	delete(sess.Artifacts, types.KeyUserFeedback)

	if !t.setupAssetRoot() {
		return
	}

	sess.Stage = types.StageScriptRefinement
	t.status("Theme approved, moving to the script refinement stage.")

	t.status("Starting research.")
	for _, col := range []Collaborator{t.c.col.ExpertResearcher, t.c.col.WebResearcher, t.c.col.ResearchCompiler} {
		if !t.run(ctx, col) {
			return
		}
	}

	t.status("Research finished, starting script creation.")
	t.draftScriptAndAskForFeedback(ctx)
}

func (t *turn) defineThemeAndAskForFeedback(ctx context.Context) {
	if !t.run(ctx, t.c.col.Theme) {
		return
	}

	var out struct {
		Theme string `json:"theme"`
	}
	if err := t.sess.Artifacts.Get(t.c.col.Theme.OutputKey(), &out); err != nil || out.Theme == "" {
		t.errorf("%s produced an unreadable theme: %v", t.c.col.Theme.Name(), err)
		return
	}

	t.status(fmt.Sprintf(
		"It seems that you want to create a short video about '%s', is this correct?\n\nAnswer with 'yes' or describe what theme you want.",
		out.Theme,
	))
	t.sess.AwaitingApproval = true
}

// setupAssetRoot derives the session's asset root from the approved theme and
// persists the theme/intent artifacts. The slug is deterministic, so the root
// stays stable for the rest of the session.
func (t *turn) setupAssetRoot() bool {
	sess := t.sess

	var ti struct {
		Theme      string `json:"theme"`
		UserIntent string `json:"user_intent"`
	}
	if err := sess.Artifacts.Get(t.c.col.Theme.OutputKey(), &ti); err != nil {
		t.errorf("cannot allocate asset root: %v", err)
		return false
	}

	root := filepath.Join(t.c.cfg.Paths.Projects, Slugify(ti.Theme))
	if err := os.MkdirAll(root, 0755); err != nil {
		t.errorf("cannot create asset root %s: %v", root, err)
		return false
	}

	sess.AssetRoot = root
	sess.Artifacts.SetText(types.KeyTheme, ti.Theme)
	sess.Artifacts.SetText(types.KeyIntent, ti.UserIntent)
	sess.Artifacts.SetText(types.KeyAssetsPath, root)

	t.status(fmt.Sprintf("Generated assets will be stored at: '%s'.", root))
	return true
}

// resumeScriptDraft re-runs whatever the research-and-draft chain still owes,
// skipping steps whose output already exists.
func (t *turn) resumeScriptDraft(ctx context.Context) {
	for _, col := range []Collaborator{t.c.col.ExpertResearcher, t.c.col.WebResearcher, t.c.col.ResearchCompiler} {
		if t.sess.Artifacts.Has(col.OutputKey()) {
			continue
		}
		if !t.run(ctx, col) {
			return
		}
	}
	t.draftScriptAndAskForFeedback(ctx)
}

func (t *turn) draftScriptAndAskForFeedback(ctx context.Context) {
	if !t.run(ctx, t.c.col.ScriptWriter) {
		return
	}

	script, _ := t.sess.Artifacts.Text(t.c.col.ScriptWriter.OutputKey())
	t.sess.Artifacts.SetText(types.KeyCurrentScript, script)

	t.status("Here is the current script draft:\n\n" + script)
	t.status("Do you approve this script?\nAnswer with 'yes' or provide feedback for improvement.")
	t.sess.AwaitingApproval = true
}

// scriptRefinement classifies the user's reply only while a draft is pending
// approval. When no draft is pending (a research or script step failed after
// theme approval), the turn resumes the interrupted chain instead; otherwise
// arbitrary input could pass the approval gate with no script ever written.
func (t *turn) scriptRefinement(ctx context.Context, input string) {
	sess := t.sess

	if !sess.AwaitingApproval {
		t.resumeScriptDraft(ctx)
		return
	}

	decision := t.classify(ctx, input)
	if !decision.Approved {
		sess.ScriptApproved = false
		if decision.Feedback != "" {
			sess.Artifacts.SetText(types.KeyUserFeedback, decision.Feedback)
		}
		t.draftScriptAndAskForFeedback(ctx)
		return
	}

	sess.ScriptApproved = true
	sess.AwaitingApproval = false
	delete(sess.Artifacts, types.KeyUserFeedback)

	sess.Stage = types.StageAssetGeneration
	t.status("Script approved, starting the video generation process.")
	t.assetGeneration(ctx)
}

// assetGeneration runs the full generation chain in strict order. There is no
// approval gate here. A step whose output key is already present is skipped,
// which is what makes re-entering this stage after a mid-chain abort resume
// instead of regenerate.
func (t *turn) assetGeneration(ctx context.Context) {
	sess := t.sess

	steps := []struct {
		col Collaborator
		msg string
	}{
		{t.c.col.SceneBreakdown, "Breaking the script into scenes..."},
		{t.c.col.ImagePrompts, "Generating prompts for the images..."},
		{t.c.col.VideoPrompts, "Generating prompts for the videos..."},
		{t.c.col.Voiceover, "Generating voiceovers..."},
		{t.c.col.Images, "Generating images..."},
		{t.c.col.Videos, "Generating videos..."},
		{t.c.col.Assembler, "Assembling the final video..."},
		{t.c.col.SEO, "Optimizing video title and description for SEO..."},
	}

	for _, step := range steps {
		if sess.Artifacts.Has(step.col.OutputKey()) {
			t.status(fmt.Sprintf("%s output already present, skipping.", step.col.Name()))
			continue
		}
		t.status(step.msg)
		if !t.run(ctx, step.col) {
			return
		}
		t.snapshotArtifacts()
	}

	// Upload is ancillary: a failure is reported but never blocks completion.
	if up := t.c.col.Uploader; up != nil && !sess.Artifacts.Has(up.OutputKey()) {
		t.status("Uploading the final video...")
		if err := up.Run(ctx, sess); err != nil {
			t.errorf("%s failed: %v", up.Name(), err)
		} else if url, ok := sess.Artifacts.Text(up.OutputKey()); ok {
			t.status(fmt.Sprintf("Video published at: %s", url))
		}
	}

	sess.Stage = types.StageDone
	outputPath, _ := sess.Artifacts.Text(t.c.col.Assembler.OutputKey())
	t.status(fmt.Sprintf("Short video content creation workflow finished. Video stored at: '%s'.", outputPath))
}
