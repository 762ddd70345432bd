package extract

import "strings"

// DefaultRedirectSignals mark a human message that overrides or corrects
// the preceding assistant turn.
var DefaultRedirectSignals = []string{
	"no,", "no.", "actually", "instead", "don't", "not that", "wrong",
	"i'd rather", "i prefer", "let's go with", "change that to",
	"that's not", "i disagree", "override", "ignore that",
	"scratch that", "wait,", "hold on", "stop",
}

// DefaultChoiceSignals mark an assistant turn that presents alternatives.
var DefaultChoiceSignals = []string{
	"option 1", "option 2", "approach 1", "approach 2",
	"we could either", "two approaches", "alternatives:",
	"which would you prefer", "should i", "do you want",
	"there are a few ways", "a few options",
}

// DefaultInterruptPrefix starts the placeholder message Claude Code writes
// when the user aborts a request.
const DefaultInterruptPrefix = "[Request interrupted by user"

// Lexicon is the fixed signal vocabulary used by the Extractor.
// A Lexicon is immutable once built; use NewLexicon to construct one.
type Lexicon struct {
	redirect        []string
	choice          []string
	interruptPrefix string
}

// NewLexicon lower-cases and copies the given signals. Empty lists are kept
// empty so that a test can disable a category entirely.
func NewLexicon(redirect, choice []string, interruptPrefix string) Lexicon {
	return Lexicon{
		redirect:        lowerAll(redirect),
		choice:          lowerAll(choice),
		interruptPrefix: interruptPrefix,
	}
}

// DefaultLexicon returns the built-in vocabulary.
func DefaultLexicon() Lexicon {
	return NewLexicon(DefaultRedirectSignals, DefaultChoiceSignals, DefaultInterruptPrefix)
}

// RedirectSignals returns a copy of the redirect vocabulary.
func (l Lexicon) RedirectSignals() []string {
	return append([]string(nil), l.redirect...)
}

// ChoiceSignals returns a copy of the choice vocabulary.
func (l Lexicon) ChoiceSignals() []string {
	return append([]string(nil), l.choice...)
}

func (l Lexicon) InterruptPrefix() string {
	return l.interruptPrefix
}

// MatchRedirect returns the first redirect signal contained in text.
func (l Lexicon) MatchRedirect(text string) (string, bool) {
	return firstMatch(strings.ToLower(text), l.redirect)
}

// MatchChoice returns the first choice signal contained in text.
func (l Lexicon) MatchChoice(text string) (string, bool) {
	return firstMatch(strings.ToLower(text), l.choice)
}

// Interrupted reports whether text is an aborted-request placeholder.
func (l Lexicon) Interrupted(text string) bool {
	return l.interruptPrefix != "" && strings.HasPrefix(strings.TrimSpace(text), l.interruptPrefix)
}

func firstMatch(lower string, signals []string) (string, bool) {
	for _, s := range signals {
		if s != "" && strings.Contains(lower, s) {
			return s, true
		}
	}
	return "", false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
