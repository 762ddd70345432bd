package extract

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Zuo-Peng/decision-trail/internal/parse"
)

type Category string

const (
	CategoryRedirect          Category = "redirect"
	CategoryChoice            Category = "choice"
	CategorySignificantChange Category = "significant_change"
)

// Categories lists every category in report order.
var Categories = []Category{CategoryRedirect, CategoryChoice, CategorySignificantChange}

const DefaultConfidence = "medium"

const (
	summaryLen       = 80
	choiceSummaryLen = 60
	fieldLen         = 200
	maxListedFiles   = 5
	significantFiles = 3
)

// Candidate is a heuristically detected decision moment.
type Candidate struct {
	Summary       string   `json:"summary" yaml:"summary"`
	Context       string   `json:"context" yaml:"context"`
	AISuggestion  string   `json:"ai_suggestion" yaml:"ai_suggestion"`
	HumanResponse string   `json:"human_response" yaml:"human_response"`
	Category      Category `json:"category" yaml:"category"`
	TurnIndex     int      `json:"turn_index" yaml:"turn_index"`
	Confidence    string   `json:"confidence" yaml:"confidence"`
	Signal        string   `json:"signal,omitempty" yaml:"signal,omitempty"` // matched lexicon entry
}

// Result is the outcome of extracting one session.
type Result struct {
	Meta       parse.SessionMeta
	Turns      []Turn
	Candidates []Candidate
}

// Count returns the number of candidates in category c.
func (r *Result) Count(c Category) int {
	n := 0
	for _, cand := range r.Candidates {
		if cand.Category == c {
			n++
		}
	}
	return n
}

// Extractor runs the normalize, group and classify pipeline.
type Extractor struct {
	lex  Lexicon
	norm *parse.Normalizer
}

func New(lex Lexicon, norm *parse.Normalizer) *Extractor {
	if norm == nil {
		norm = parse.NewNormalizer(nil)
	}
	return &Extractor{lex: lex, norm: norm}
}

// ExtractFile parses the session log at path and classifies its turns.
// source is parse.SourceClaude, parse.SourceCodex or "" to detect it from
// the file. Only an unreadable file is an error.
func (e *Extractor) ExtractFile(path, source string) (*Result, error) {
	parsed, err := e.norm.ParseFile(path, source)
	if err != nil {
		return nil, err
	}
	turns := GroupTurns(parsed.Entries)
	cands := e.Candidates(turns)

	log.Debug().
		Str("file", path).
		Int("turns", len(turns)).
		Int("candidates", len(cands)).
		Msg("session extracted")

	return &Result{Meta: parsed.Meta, Turns: turns, Candidates: cands}, nil
}

// Candidates classifies every human turn against its nearest preceding
// assistant turn.
func (e *Extractor) Candidates(turns []Turn) []Candidate {
	var out []Candidate
	for i := 1; i < len(turns); i++ {
		human := turns[i]
		if human.Role != parse.RoleHuman {
			continue
		}
		ai, ok := precedingAssistant(turns, i)
		if !ok {
			continue
		}
		if strings.TrimSpace(human.Text) == "" || e.lex.Interrupted(human.Text) {
			continue
		}

		if signal, ok := e.lex.MatchRedirect(human.Text); ok {
			out = append(out, Candidate{
				Summary:       Truncate(human.Text, summaryLen),
				Context:       Truncate(ai.Text, fieldLen),
				AISuggestion:  Truncate(ai.Text, fieldLen),
				HumanResponse: Truncate(human.Text, fieldLen),
				Category:      CategoryRedirect,
				TurnIndex:     i,
				Confidence:    DefaultConfidence,
				Signal:        signal,
			})
		} else if signal, ok := e.lex.MatchChoice(ai.Text); ok {
			out = append(out, Candidate{
				Summary:       "Chose: " + Truncate(human.Text, choiceSummaryLen),
				Context:       Truncate(ai.Text, fieldLen),
				AISuggestion:  Truncate(ai.Text, fieldLen),
				HumanResponse: Truncate(human.Text, fieldLen),
				Category:      CategoryChoice,
				TurnIndex:     i,
				Confidence:    DefaultConfidence,
				Signal:        signal,
			})
		}

		if len(ai.Files) >= significantFiles {
			names := ai.Files.Sorted()
			if len(names) > maxListedFiles {
				names = names[:maxListedFiles]
			}
			out = append(out, Candidate{
				Summary:      fmt.Sprintf("Significant changes: %s", strings.Join(names, ", ")),
				Context:      Truncate(human.Text, fieldLen),
				AISuggestion: Truncate(ai.Text, fieldLen),
				Category:     CategorySignificantChange,
				TurnIndex:    i,
				Confidence:   DefaultConfidence,
			})
		}
	}
	return out
}

// precedingAssistant scans backward from i for the nearest assistant turn.
func precedingAssistant(turns []Turn, i int) (Turn, bool) {
	for j := i - 1; j >= 0; j-- {
		if turns[j].Role == parse.RoleAssistant {
			return turns[j], true
		}
	}
	return Turn{}, false
}
