package parse

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"
)

// Top-level record in Codex JSONL
type codexRecord struct {
	Timestamp string          `json:"timestamp"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

// session_meta payload
type codexSessionMeta struct {
	Cwd string `json:"cwd"`
}

// event_msg payload (flat, not nested)
type codexEventPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"` // for user_message
}

// response_item payload
type codexResponsePayload struct {
	Type    string `json:"type"`
	Role    string `json:"role"`
	Name    string `json:"name"`      // function_call, custom_tool_call
	Args    string `json:"arguments"` // function_call
	Input   string `json:"input"`     // custom_tool_call
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type codexShellArgs struct {
	Command []string `json:"command"`
	Input   string   `json:"input"`
}

var patchFileRe = regexp.MustCompile(`(?m)^\*\*\* (?:Add|Update|Delete) File: (.+?)\s*$`)

// NormalizeCodex turns one Codex JSONL line into a LogEntry.
func (n *Normalizer) NormalizeCodex(line []byte) (entry LogEntry, cwd string, ok bool) {
	var rec codexRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return LogEntry{}, "", false
	}

	switch rec.Type {
	case "session_meta":
		var meta codexSessionMeta
		if err := json.Unmarshal(rec.Payload, &meta); err == nil {
			cwd = meta.Cwd
		}
		return LogEntry{}, cwd, false

	case "event_msg":
		var evt codexEventPayload
		if err := json.Unmarshal(rec.Payload, &evt); err != nil {
			return LogEntry{}, "", false
		}
		// response_item user messages also carry injected environment
		// context, so human text comes from user_message events only
		if evt.Type != "user_message" || strings.TrimSpace(evt.Message) == "" {
			return LogEntry{}, "", false
		}
		return n.codexEntry(rec, RoleHuman, evt.Message, nil, line), "", true

	case "response_item":
		var item codexResponsePayload
		if err := json.Unmarshal(rec.Payload, &item); err != nil {
			return LogEntry{}, "", false
		}
		switch item.Type {
		case "message":
			if item.Role != "assistant" {
				return LogEntry{}, "", false
			}
			var parts []string
			for _, c := range item.Content {
				if (c.Type == "output_text" || c.Type == "text") && c.Text != "" {
					parts = append(parts, c.Text)
				}
			}
			text := strings.Join(parts, " ")
			if strings.TrimSpace(text) == "" {
				return LogEntry{}, "", false
			}
			return n.codexEntry(rec, RoleAssistant, text, nil, line), "", true

		case "function_call", "custom_tool_call":
			files := n.codexPatchFiles(item)
			if len(files) == 0 {
				return LogEntry{}, "", false
			}
			return n.codexEntry(rec, RoleAssistant, "", files, line), "", true
		}
	}
	return LogEntry{}, "", false
}

func (n *Normalizer) codexEntry(rec codexRecord, role Role, text string, files FileSet, line []byte) LogEntry {
	if files == nil {
		files = FileSet{}
	}
	raw := make(json.RawMessage, len(line))
	copy(raw, line)
	return LogEntry{
		Role:      role,
		Text:      text,
		Files:     files,
		Raw:       raw,
		Timestamp: parseTimestamp(rec.Timestamp),
	}
}

// codexPatchFiles collects the files named in an apply_patch body, whether
// the patch came as its own tool or through the shell tool.
func (n *Normalizer) codexPatchFiles(item codexResponsePayload) FileSet {
	var body string
	switch {
	case item.Type == "custom_tool_call" && n.isFileTool(item.Name):
		body = item.Input
	case item.Type == "function_call":
		var args codexShellArgs
		if err := json.Unmarshal([]byte(item.Args), &args); err != nil {
			return nil
		}
		tool := item.Name
		if len(args.Command) > 0 && n.isFileTool(args.Command[0]) {
			tool = args.Command[0]
		}
		if !n.isFileTool(tool) {
			return nil
		}
		body = strings.Join(append(args.Command, args.Input), "\n")
	default:
		return nil
	}

	files := FileSet{}
	for _, m := range patchFileRe.FindAllStringSubmatch(body, -1) {
		files.Add(filepath.Base(m[1]))
	}
	return files
}
