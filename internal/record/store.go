package record

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
)

var numberPrefixRe = regexp.MustCompile(`^(\d+)-`)

// Next returns the number after the highest numbered file in dir.
func Next(dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return 0, err
	}
	max := 0
	for _, f := range files {
		m := numberPrefixRe.FindStringSubmatch(filepath.Base(f))
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

// Save assigns the next number when rec has none and writes it to dir.
func Save(dir string, rec *DecisionRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create decisions dir: %w", err)
	}
	if rec.Number == 0 {
		n, err := Next(dir)
		if err != nil {
			return "", err
		}
		rec.Number = n
	}
	p := filepath.Join(dir, rec.Filename())
	if err := os.WriteFile(p, []byte(rec.Markdown()), 0o644); err != nil {
		return "", fmt.Errorf("write decision: %w", err)
	}
	return p, nil
}

// Stored is a record together with the file it was read from.
type Stored struct {
	*DecisionRecord
	Path string
}

// LoadAll reads every parseable record in dir, ordered by file name.
// A missing dir yields no records.
func LoadAll(dir string) ([]Stored, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var out []Stored
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Warn().Err(err).Str("file", f).Msg("skip unreadable decision")
			continue
		}
		rec, err := ParseMarkdown(string(data))
		if err != nil {
			log.Debug().Err(err).Str("file", f).Msg("skip non-decision markdown")
			continue
		}
		out = append(out, Stored{DecisionRecord: rec, Path: f})
	}
	return out, nil
}

// Find looks a record up by reference ("DT-3", "3").
func Find(dir, ref string) (Stored, error) {
	n, err := ParseRef(ref)
	if err != nil {
		return Stored{}, err
	}
	all, err := LoadAll(dir)
	if err != nil {
		return Stored{}, err
	}
	for _, s := range all {
		if s.Number == n {
			return s, nil
		}
	}
	return Stored{}, fmt.Errorf("%w: DT-%03d", ErrNotFound, n)
}
