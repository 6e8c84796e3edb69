package workflow

import (
	"context"
	"errors"

	"shortform-studio/types"
)

// Collaborator is the narrow contract between the stage controller and every
// generation step. A collaborator reads named artifact keys from the session,
// does its work off-core, and writes exactly one named output key on success.
// The controller never looks past that key.
type Collaborator interface {
	Name() string
	OutputKey() string
	Run(ctx context.Context, sess *types.WorkflowSession) error
}

// ErrMissingArtifact marks a collaborator that returned without populating
// its contracted output key. The turn aborts but the session stays resumable.
var ErrMissingArtifact = errors.New("collaborator did not produce its output artifact")
