package parse

import (
	"encoding/json"
	"sort"
	"time"
)

type Role string

const (
	RoleNone      Role = ""
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// FileSet is a set of base file names touched by an entry or turn.
type FileSet map[string]struct{}

func (s FileSet) Add(name string) {
	s[name] = struct{}{}
}

// Union adds every name in other to s.
func (s FileSet) Union(other FileSet) {
	for name := range other {
		s[name] = struct{}{}
	}
}

// Sorted returns the names in lexical order.
func (s FileSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LogEntry is one normalized line of a session log.
type LogEntry struct {
	Role       Role
	Text       string
	Files      FileSet
	Raw        json.RawMessage
	LineNumber int // line number in original file
	Timestamp  time.Time
}

type SessionMeta struct {
	Source    string // "claude" or "codex"
	FilePath  string
	RepoCwd   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Mtime     time.Time
	Size      int64
}

type ParseResult struct {
	Meta    SessionMeta
	Entries []LogEntry
}
