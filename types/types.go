package types

import (
	"time"
)

// Stage is a phase of the video creation workflow. Stages advance linearly;
// the only way back is a "not approved" revision loop within the same stage.
type Stage string

const (
	StageThemeDefinition  Stage = "theme_definition"
	StageScriptRefinement Stage = "script_refinement"
	StageAssetGeneration  Stage = "asset_generation"
	StageDone             Stage = "done"
)

// WorkflowSession is the full mutable state of one video creation
// conversation. It is loaded by id at the start of every turn and saved back
// when the turn ends, so the stage controller itself stays stateless.
type WorkflowSession struct {
	ID               string    `json:"id"`
	Stage            Stage     `json:"stage"`
	AwaitingApproval bool      `json:"awaiting_approval"`
	ThemeApproved    bool      `json:"theme_approved"`
	ScriptApproved   bool      `json:"script_approved"`
	AssetRoot        string    `json:"asset_root"`
	Artifacts        Artifacts `json:"artifacts"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// EventKind distinguishes progress messages from failures.
type EventKind string

const (
	EventStatus EventKind = "status"
	EventError  EventKind = "error"
)

// Event is one entry of the user-visible status channel. A turn returns an
// ordered slice of these; they are the only output besides the final video
// path artifact.
type Event struct {
	Kind    EventKind `json:"kind"`
	Source  string    `json:"source"`
	Message string    `json:"message"`
}

func Status(source, message string) Event {
	return Event{Kind: EventStatus, Source: source, Message: message}
}

func Error(source, message string) Event {
	return Event{Kind: EventError, Source: source, Message: message}
}

// Shared artifact keys written by the stage controller itself. Collaborator
// output keys live next to the collaborator that owns them.
const (
	KeyUserInput     = "user_input"
	KeyUserFeedback  = "user_feedback"
	KeyTheme         = "theme"
	KeyIntent        = "intent"
	KeyAssetsPath    = "assets_path"
	KeyCurrentScript = "current_script"
)
