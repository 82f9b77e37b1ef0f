// Package assets carries the starter data files installed by `moodlog init`
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed files
var files embed.FS

// Targets are the destinations of the starter files
type Targets struct {
	Lexicon         string
	Recommendations string
	EmotionInfo     string
}

// Result tells which files were written and which were left in place
type Result struct {
	Written []string
	Skipped []string
}

// Install copies the starter files to their targets. Existing files are
// kept unless overwrite is set. Empty targets are ignored.
func Install(t Targets, overwrite bool) (Result, error) {
	var res Result
	pairs := []struct{ name, dest string }{
		{"emotion_lexicon.yaml", t.Lexicon},
		{"recommendations.json", t.Recommendations},
		{"emotions_info.json", t.EmotionInfo},
	}

	for _, p := range pairs {
		if p.dest == "" {
			continue
		}
		if !overwrite {
			if _, err := os.Stat(p.dest); err == nil {
				res.Skipped = append(res.Skipped, p.dest)
				continue
			} else if !errors.Is(err, fs.ErrNotExist) {
				return res, fmt.Errorf("stat %s: %w", p.dest, err)
			}
		}

		data, err := File(p.name)
		if err != nil {
			return res, err
		}
		if err := os.MkdirAll(filepath.Dir(p.dest), 0o755); err != nil {
			return res, fmt.Errorf("create dir for %s: %w", p.dest, err)
		}
		if err := os.WriteFile(p.dest, data, 0o644); err != nil {
			return res, fmt.Errorf("write %s: %w", p.dest, err)
		}
		res.Written = append(res.Written, p.dest)
	}
	return res, nil
}

// File returns the content of one embedded starter file
func File(name string) ([]byte, error) {
	data, err := files.ReadFile("files/" + name)
	if err != nil {
		return nil, fmt.Errorf("embedded asset %s: %w", name, err)
	}
	return data, nil
}
