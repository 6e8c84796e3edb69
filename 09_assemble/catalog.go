package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"shortform-studio/config"
)

// SceneAssets is everything found on disk for one scene directory.
type SceneAssets struct {
	Index      int
	Dir        string
	Voiceovers []string
	Images     []string
	Videos     []string
}

var sceneDirPattern = regexp.MustCompile(`_(\d+)$`)

// DiscoverScenes walks the project root for scene_<n> directories and returns
// them in ascending numeric order. Lexical order would put scene_10 before
// scene_2, which breaks the timeline.
func DiscoverScenes(root string, cfg config.AssemblyConfig) ([]SceneAssets, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read project root: %w", err)
	}

	var scenes []SceneAssets
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := sceneDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		scenes = append(scenes, SceneAssets{
			Index:      idx,
			Dir:        dir,
			Voiceovers: listMedia(filepath.Join(dir, cfg.VoiceoverSubdir), "wav", "mp3"),
			Images:     listMedia(filepath.Join(dir, cfg.ImagesSubdir), "jpg", "jpeg", "png"),
			Videos:     listMedia(filepath.Join(dir, cfg.VideosSubdir), "mp4", "mov"),
		})
	}

	sort.Slice(scenes, func(i, j int) bool { return scenes[i].Index < scenes[j].Index })
	return scenes, nil
}

func listMedia(dir string, exts ...string) []string {
	var files []string
	for _, ext := range exts {
		matches, err := filepath.Glob(filepath.Join(dir, "*."+ext))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files
}
