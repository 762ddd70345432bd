package extract

import (
	"strings"

	"github.com/Zuo-Peng/decision-trail/internal/parse"
)

// Turn is one logical contribution: consecutive same-role entries merged.
type Turn struct {
	Role    parse.Role
	Text    string
	Entries []parse.LogEntry
	Files   parse.FileSet
}

// FirstLine returns the source line of the turn's first entry.
func (t Turn) FirstLine() int {
	if len(t.Entries) == 0 {
		return 0
	}
	return t.Entries[0].LineNumber
}

type turnBuffer struct {
	role      parse.Role
	fragments []string
	entries   []parse.LogEntry
	files     parse.FileSet
}

func (b *turnBuffer) reset(role parse.Role) {
	b.role = role
	b.fragments = nil
	b.entries = nil
	b.files = parse.FileSet{}
}

func (b *turnBuffer) add(e parse.LogEntry) {
	if strings.TrimSpace(e.Text) != "" {
		b.fragments = append(b.fragments, e.Text)
	}
	b.entries = append(b.entries, e)
	b.files.Union(e.Files)
}

// GroupTurns merges runs of same-role entries into turns. Turns whose
// merged text is blank are dropped; if that leaves two same-role turns
// adjacent, they are merged so roles always alternate.
func GroupTurns(entries []parse.LogEntry) []Turn {
	var turns []Turn
	var buf turnBuffer

	flush := func() {
		if buf.role == parse.RoleNone {
			return
		}
		text := strings.Join(buf.fragments, " ")
		if strings.TrimSpace(text) == "" {
			return
		}
		if n := len(turns); n > 0 && turns[n-1].Role == buf.role {
			last := &turns[n-1]
			last.Text = last.Text + " " + text
			last.Entries = append(last.Entries, buf.entries...)
			last.Files.Union(buf.files)
			return
		}
		turns = append(turns, Turn{
			Role:    buf.role,
			Text:    text,
			Entries: buf.entries,
			Files:   buf.files,
		})
	}

	for _, e := range entries {
		if e.Role == parse.RoleNone {
			continue
		}
		if e.Role != buf.role {
			flush()
			buf.reset(e.Role)
		}
		buf.add(e)
	}
	flush()

	return turns
}

// CountRoles returns the number of human and assistant turns.
func CountRoles(turns []Turn) (human, assistant int) {
	for _, t := range turns {
		switch t.Role {
		case parse.RoleHuman:
			human++
		case parse.RoleAssistant:
			assistant++
		}
	}
	return human, assistant
}
