package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
	"github.com/Zuo-Peng/decision-trail/internal/record"
)

func editor() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "less"
}

// OpenRecord opens the decision record ref ("DT-3") from dir in $EDITOR.
func OpenRecord(dir, ref string) error {
	rec, err := record.Find(dir, ref)
	if err != nil {
		return err
	}
	return openInEditor(editor(), rec.Path, 1)
}

// OpenSession opens a session log at the first line of the given turn.
// A negative turn opens the top of the file. source may be "" to detect it.
func OpenSession(ex *extract.Extractor, filePath, source string, turn int) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	lineNum := 1
	if turn >= 0 {
		res, err := ex.ExtractFile(filePath, source)
		if err != nil {
			return err
		}
		lineNum = TurnLine(res.Turns, turn)
	}
	return openInEditor(editor(), filePath, lineNum)
}

// TurnLine is the 1-based log line where turn starts, or 1 when the turn
// is out of range.
func TurnLine(turns []extract.Turn, turn int) int {
	if turn < 0 || turn >= len(turns) {
		return 1
	}
	if n := turns[turn].FirstLine(); n > 0 {
		return n
	}
	return 1
}

func editorArgs(editor, filePath string, lineNum int) []string {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return []string{fmt.Sprintf("+%d", lineNum), filePath}
	case strings.Contains(editor, "code"):
		return []string{"--goto", filePath + ":" + strconv.Itoa(lineNum)}
	case strings.Contains(editor, "less"):
		return []string{"+" + strconv.Itoa(lineNum), filePath}
	default:
		return []string{filePath}
	}
}

func openInEditor(editor, filePath string, lineNum int) error {
	cmd := exec.Command(editor, editorArgs(editor, filePath, lineNum)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
