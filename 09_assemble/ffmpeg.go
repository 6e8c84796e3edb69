package assemble

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DurationProber reports the duration of a media file in seconds. The ffprobe
// implementation is the only one used outside of tests.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// CommandRunner executes an external command to completion. Wrapping exec
// behind an interface keeps the composer testable without ffmpeg installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// FFprobe probes media durations with the ffprobe binary.
type FFprobe struct{}

func (FFprobe) Duration(ctx context.Context, path string) (float64, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var dur float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur); err != nil {
		return 0, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}
	return dur, nil
}

// ExecRunner runs commands directly, streaming stderr through so ffmpeg
// progress stays visible.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
