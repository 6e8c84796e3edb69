package workflow

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// snapshotArtifacts persists the current artifact store under the asset root,
// one file per key: structured values as pretty JSON, text blobs as markdown.
// Snapshot failures are logged only; they never interrupt the workflow.
func (t *turn) snapshotArtifacts() {
	if t.sess.AssetRoot == "" {
		return
	}

	for key, raw := range t.sess.Artifacts {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			path := filepath.Join(t.sess.AssetRoot, key+".md")
			if err := os.WriteFile(path, []byte(text), 0644); err != nil {
				t.c.log.Warn().Err(err).Str("artifact", key).Msg("could not snapshot artifact")
			}
			continue
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			pretty.Write(raw)
		}
		path := filepath.Join(t.sess.AssetRoot, key+".json")
		if err := os.WriteFile(path, pretty.Bytes(), 0644); err != nil {
			t.c.log.Warn().Err(err).Str("artifact", key).Msg("could not snapshot artifact")
		}
	}
}
