package parse

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"
)

type claudeRecord struct {
	Type      string          `json:"type"`
	IsMeta    bool            `json:"isMeta"`
	Timestamp string          `json:"timestamp"`
	Cwd       string          `json:"cwd"`
	Message   json.RawMessage `json:"message"`
	Content   json.RawMessage `json:"content"` // flat records without a message envelope
}

type claudeMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type blockKind int

const (
	blockOther blockKind = iota
	blockText
	blockToolUse
)

type claudeContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

type toolInput struct {
	FilePath     string `json:"file_path"`
	NotebookPath string `json:"notebook_path"`
}

func (b claudeContentBlock) kind() blockKind {
	switch b.Type {
	case "text":
		return blockText
	case "tool_use", "server_tool_use":
		return blockToolUse
	default:
		return blockOther
	}
}

// target returns the path argument of a tool invocation, or "".
func (b claudeContentBlock) target() string {
	if len(b.Input) == 0 {
		return ""
	}
	var in toolInput
	if err := json.Unmarshal(b.Input, &in); err != nil {
		return ""
	}
	if in.FilePath != "" {
		return in.FilePath
	}
	return in.NotebookPath
}

// NormalizeClaude turns one Claude Code JSONL line into a LogEntry.
// ok is false when the line should not contribute to the session.
func (n *Normalizer) NormalizeClaude(line []byte) (entry LogEntry, cwd string, ok bool) {
	var rec claudeRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return LogEntry{}, "", false
	}
	cwd = rec.Cwd
	if rec.IsMeta {
		return LogEntry{}, cwd, false
	}

	var msg claudeMessage
	if len(rec.Message) > 0 && string(rec.Message) != "null" {
		if err := json.Unmarshal(rec.Message, &msg); err != nil {
			return LogEntry{}, cwd, false
		}
	} else {
		msg.Content = rec.Content
	}

	role := resolveRole(msg.Role, rec.Type)
	if role == RoleNone {
		return LogEntry{}, cwd, false
	}

	text, blocks := extractClaudeContent(msg.Content)
	files := FileSet{}
	if role == RoleAssistant {
		for _, b := range blocks {
			if b.kind() != blockToolUse || !n.isFileTool(b.Name) {
				continue
			}
			if p := b.target(); p != "" {
				files.Add(filepath.Base(p))
			}
		}
	}

	if strings.TrimSpace(text) == "" && len(files) == 0 {
		return LogEntry{}, cwd, false
	}

	raw := make(json.RawMessage, len(line))
	copy(raw, line)
	return LogEntry{
		Role:      role,
		Text:      text,
		Files:     files,
		Raw:       raw,
		Timestamp: parseTimestamp(rec.Timestamp),
	}, cwd, true
}

// resolveRole prefers the message's declared role and falls back to the
// record type for envelopes that carry none.
func resolveRole(msgRole, recType string) Role {
	if msgRole != "" {
		switch msgRole {
		case "user":
			return RoleHuman
		case "assistant":
			return RoleAssistant
		}
		return RoleNone
	}
	switch recType {
	case "user", "human":
		return RoleHuman
	case "assistant":
		return RoleAssistant
	}
	return RoleNone
}

// extractClaudeContent returns the plain text of a message content field
// and the decoded content blocks, if any.
func extractClaudeContent(raw json.RawMessage) (string, []claudeContentBlock) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	// try string first
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	// try array of content blocks; each element decodes on its own so one
	// odd block does not discard the rest
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err == nil {
		var textParts []string
		var blocks []claudeContentBlock
		for _, e := range elems {
			var bare string
			if err := json.Unmarshal(e, &bare); err == nil {
				textParts = append(textParts, bare)
				continue
			}
			var b claudeContentBlock
			if err := json.Unmarshal(e, &b); err != nil {
				continue
			}
			blocks = append(blocks, b)
			if b.kind() == blockText {
				textParts = append(textParts, b.Text)
			}
		}
		return strings.Join(textParts, " "), blocks
	}

	return string(raw), nil
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	// try RFC3339
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	// try RFC3339Nano
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	// try ISO8601 without timezone
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
