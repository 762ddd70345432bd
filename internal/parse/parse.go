package parse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

const (
	SourceClaude = "claude"
	SourceCodex  = "codex"
)

// DefaultFileTools are the tool names treated as file-mutating.
var DefaultFileTools = []string{"Write", "Edit", "MultiEdit", "NotebookEdit", "apply_patch"}

// Normalizer converts raw log lines into LogEntry values.
// It holds no per-session state and may be reused.
type Normalizer struct {
	fileTools map[string]struct{}
}

// NewNormalizer returns a Normalizer recognizing the given file-mutating
// tool names. An empty list falls back to DefaultFileTools.
func NewNormalizer(fileTools []string) *Normalizer {
	if len(fileTools) == 0 {
		fileTools = DefaultFileTools
	}
	set := make(map[string]struct{}, len(fileTools))
	for _, t := range fileTools {
		set[t] = struct{}{}
	}
	return &Normalizer{fileTools: set}
}

func (n *Normalizer) isFileTool(name string) bool {
	_, ok := n.fileTools[name]
	return ok
}

// ParseFile reads a whole session log. source may be "" to auto-detect.
// Only failure to open or read the file is reported as an error;
// undecodable lines are skipped.
func (n *Normalizer) ParseFile(filePath, source string) (*ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat session: %w", err)
	}

	if source == "" {
		source = sniffSource(f)
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind session: %w", err)
		}
	}

	entries, cwd, err := n.Read(f, source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}

	result := &ParseResult{
		Meta: SessionMeta{
			Source:   source,
			FilePath: filePath,
			RepoCwd:  cwd,
			Mtime:    info.ModTime(),
			Size:     info.Size(),
		},
		Entries: entries,
	}
	for _, e := range entries {
		if e.Timestamp.IsZero() {
			continue
		}
		if result.Meta.CreatedAt.IsZero() {
			result.Meta.CreatedAt = e.Timestamp
		}
		result.Meta.UpdatedAt = e.Timestamp
	}
	return result, nil
}

// Read normalizes every line of r. It returns the entries in file order and
// the first working directory recorded in the log.
func (n *Normalizer) Read(r io.Reader, source string) ([]LogEntry, string, error) {
	normalize := n.NormalizeClaude
	if source == SourceCodex {
		normalize = n.NormalizeCodex
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []LogEntry
	var repoCwd string
	lineNum := 0
	skipped := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		entry, cwd, ok := normalize(line)
		if cwd != "" && repoCwd == "" {
			repoCwd = cwd
		}
		if !ok {
			skipped++
			continue
		}
		entry.LineNumber = lineNum
		entries = append(entries, entry)
	}

	log.Debug().
		Str("source", source).
		Int("lines", lineNum).
		Int("entries", len(entries)).
		Int("skipped", skipped).
		Msg("session normalized")

	return entries, repoCwd, scanner.Err()
}

// sniffSource guesses the log producer from the first decodable record.
// Lines may be as long as maxLineSize; Codex session_meta lines carry the
// full instructions text.
func sniffSource(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		var rec struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(bytes.TrimSpace(scanner.Bytes()), &rec); err != nil {
			continue
		}
		if len(rec.Payload) > 0 {
			switch rec.Type {
			case "session_meta", "event_msg", "response_item", "turn_context":
				return SourceCodex
			}
		}
		return SourceClaude
	}
	return SourceClaude
}
