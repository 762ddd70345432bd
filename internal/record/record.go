package record

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
)

var (
	ErrNoHeading = errors.New("could not parse decision heading (expected '# DT-NNN: Title')")
	ErrNotFound  = errors.New("decision not found")
)

var Statuses = []string{"accepted", "proposed", "superseded", "deprecated"}

var Confidences = []string{"low", "medium", "high"}

type Alternative struct {
	Option string
	Pros   string
	Cons   string
	Source string // "AI suggested" | "Human proposed" | "Team discussed"
}

type DecisionRecord struct {
	Number       int
	Title        string
	Date         string
	Status       string
	Tags         []string
	Model        string
	Confidence   string
	Context      string
	Decision     string
	AISuggestion string
	HumanTake    string
	Alternatives []Alternative
	Consequences string
	SessionRef   string
}

func (r *DecisionRecord) ID() string {
	return fmt.Sprintf("DT-%03d", r.Number)
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func Slug(title string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

func (r *DecisionRecord) Filename() string {
	return fmt.Sprintf("%03d-%s.md", r.Number, Slug(r.Title))
}

// Validate checks the enumerated fields.
func (r *DecisionRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.Status != "" && !contains(Statuses, r.Status) {
		return fmt.Errorf("invalid status %q (want one of %s)", r.Status, strings.Join(Statuses, ", "))
	}
	if r.Confidence != "" && !contains(Confidences, r.Confidence) {
		return fmt.Errorf("invalid confidence %q (want one of %s)", r.Confidence, strings.Join(Confidences, ", "))
	}
	return nil
}

// FromCandidate drafts a proposed record from an extracted candidate.
func FromCandidate(c extract.Candidate, sessionPath, date string) *DecisionRecord {
	rec := &DecisionRecord{
		Title:        strings.TrimPrefix(c.Summary, "Chose: "),
		Date:         date,
		Status:       "proposed",
		Tags:         []string{"#" + strings.ReplaceAll(string(c.Category), "_", "-")},
		Confidence:   c.Confidence,
		Context:      c.Context,
		AISuggestion: c.AISuggestion,
		HumanTake:    c.HumanResponse,
		SessionRef:   SessionRef(sessionPath),
	}
	if c.Category == extract.CategoryChoice {
		rec.Decision = c.HumanResponse
	}
	return rec
}

// SessionRef names a session log: its UUID when the file name carries one,
// otherwise the bare file name.
func SessionRef(sessionPath string) string {
	if sessionPath == "" {
		return ""
	}
	base := strings.TrimSuffix(filepath.Base(sessionPath), filepath.Ext(sessionPath))
	if id, err := uuid.Parse(base); err == nil {
		return id.String()
	}
	// Codex names rollouts like rollout-2026-01-26T17-30-22-<uuid>
	if len(base) >= 36 {
		if id, err := uuid.Parse(base[len(base)-36:]); err == nil {
			return id.String()
		}
	}
	return filepath.Base(sessionPath)
}

// ParseRef accepts "DT-007", "dt-7" or "7".
func ParseRef(ref string) (int, error) {
	s := strings.TrimSpace(ref)
	if len(s) > 3 && strings.EqualFold(s[:3], "dt-") {
		s = s[3:]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid decision reference %q", ref)
	}
	return n, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
