package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Zuo-Peng/decision-trail/internal/parse"
)

var ErrNoSessions = errors.New("no session logs found")

type FileInfo struct {
	Path   string
	Source string // parse.SourceClaude or parse.SourceCodex
	Mtime  time.Time
	Size   int64
}

// ScanRoots walks both roots and returns every session log, newest first.
// A root that does not exist contributes nothing.
func ScanRoots(claudeRoot, codexRoot string) ([]FileInfo, error) {
	var files []FileInfo

	if claudeRoot != "" {
		cf, err := scanClaude(claudeRoot)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		files = append(files, cf...)
	}

	if codexRoot != "" {
		cf, err := scanCodex(codexRoot)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		files = append(files, cf...)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].Mtime.Equal(files[j].Mtime) {
			return files[i].Mtime.After(files[j].Mtime)
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// Latest returns the most recently modified session log.
func Latest(claudeRoot, codexRoot string) (FileInfo, error) {
	files, err := ScanRoots(claudeRoot, codexRoot)
	if err != nil {
		return FileInfo{}, err
	}
	if len(files) == 0 {
		return FileInfo{}, ErrNoSessions
	}
	return files[0], nil
}

// Resolve maps a session argument to a file: an existing path is used as
// is, otherwise ref is matched against file names under both roots. An
// explicit path under one of the roots takes that root's source; elsewhere
// Source is left empty for the parser to detect.
func Resolve(ref, claudeRoot, codexRoot string) (FileInfo, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return FileInfo{
			Path:   ref,
			Source: sourceFor(ref, claudeRoot, codexRoot),
			Mtime:  info.ModTime(),
			Size:   info.Size(),
		}, nil
	}
	files, err := ScanRoots(claudeRoot, codexRoot)
	if err != nil {
		return FileInfo{}, err
	}
	var matches []FileInfo
	for _, f := range files {
		if strings.Contains(filepath.Base(f.Path), ref) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return FileInfo{}, fmt.Errorf("session not found: %s", ref)
	case 1:
		return matches[0], nil
	}
	return FileInfo{}, fmt.Errorf("session %q is ambiguous (%d matches)", ref, len(matches))
}

func sourceFor(path, claudeRoot, codexRoot string) string {
	switch {
	case within(codexRoot, path):
		return parse.SourceCodex
	case within(claudeRoot, path):
		return parse.SourceClaude
	}
	return ""
}

func within(root, path string) bool {
	if root == "" {
		return false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func scanClaude(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if base == "subagents" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".jsonl" {
			return nil
		}
		if strings.Contains(filepath.Base(path), "sessions-index") {
			return nil
		}
		files = append(files, FileInfo{
			Path:   path,
			Source: parse.SourceClaude,
			Mtime:  info.ModTime(),
			Size:   info.Size(),
		})
		return nil
	})
	return files, err
}

func scanCodex(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".jsonl" {
			return nil
		}
		files = append(files, FileInfo{
			Path:   path,
			Source: parse.SourceCodex,
			Mtime:  info.ModTime(),
			Size:   info.Size(),
		})
		return nil
	})
	return files, err
}
