package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DigestData is what the profile uses from one session digest.
type DigestData struct {
	Date    string
	Topic   string
	Summary string
	Bullets []string
	Pattern string
}

// SynthesisData is what the profile uses from one monthly synthesis.
type SynthesisData struct {
	Month             string
	SessionCount      int // 0 when the title carries no count
	RecurringPatterns []string
	Evolution         []string
	BeyondFluency     []string
	Gaps              []string
}

type Data struct {
	TotalSessions         int
	DateRange             string
	ActiveSince           string
	HowIWork              string
	HighlightedMoments    []string
	EvolutionNarrative    string
	BeyondFluencyEvidence string
	Digests               []DigestData
	Synthesis             []SynthesisData
}

// ParseDigest reads a digest titled "# <date> — <topic>". The first
// paragraph line after the title is the summary; "- " lines are bullets,
// except "- Pattern: ..." which sets the pattern.
func ParseDigest(text string) DigestData {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var d DigestData

	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		title := strings.TrimSpace(lines[0][2:])
		switch {
		case strings.Contains(title, " — "):
			d.Date, d.Topic, _ = strings.Cut(title, " — ")
		case strings.Contains(title, " - "):
			d.Date, d.Topic, _ = strings.Cut(title, " - ")
		default:
			d.Date = title
		}
		d.Date = strings.TrimSpace(d.Date)
		d.Topic = strings.TrimSpace(d.Topic)
	}

	inBody := false
	for _, line := range lines[1:] {
		s := strings.TrimSpace(line)
		if s == "" {
			inBody = true
			continue
		}
		if !inBody {
			continue
		}
		if strings.HasPrefix(s, "- ") {
			bullet := strings.TrimSpace(s[2:])
			if strings.HasPrefix(strings.ToLower(bullet), "pattern:") {
				d.Pattern = strings.TrimSpace(bullet[len("pattern:"):])
			} else {
				d.Bullets = append(d.Bullets, bullet)
			}
		} else if len(d.Bullets) == 0 && d.Summary == "" {
			d.Summary = s
		}
	}
	return d
}

var (
	synthMonthRe = regexp.MustCompile(`—\s*(.+?)(?:\s*\(|$)`)
	synthCountRe = regexp.MustCompile(`\((\d+)\s+sessions?\)`)
)

// ParseSynthesis reads "# Synthesis — <Month Year> (N sessions)" files.
func ParseSynthesis(text string) SynthesisData {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var s SynthesisData

	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		title := strings.TrimSpace(lines[0][2:])
		if m := synthMonthRe.FindStringSubmatch(title); m != nil {
			s.Month = strings.TrimSpace(m[1])
		}
		if m := synthCountRe.FindStringSubmatch(title); m != nil {
			s.SessionCount, _ = strconv.Atoi(m[1])
		}
	}

	sections := map[string]*[]string{
		"recurring patterns": &s.RecurringPatterns,
		"evolution":          &s.Evolution,
		"beyond fluency":     &s.BeyondFluency,
		"gaps":               &s.Gaps,
	}
	var current *[]string
	for _, line := range lines[1:] {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "## ") {
			current = sections[strings.ToLower(strings.TrimSpace(t[3:]))]
			continue
		}
		if current != nil && strings.HasPrefix(t, "- ") {
			*current = append(*current, strings.TrimSpace(t[2:]))
		}
	}
	return s
}

// judgmentSignals mark bullets that show the human exercising judgment.
var judgmentSignals = []string{
	"caught", "refused", "rejected", "challenged", "flagged",
	"stopped", "killed", "resisted", "spotted", "redirected",
	"diagnosed", "held", "chose", "instinct", "quality bar",
	"pressure-tested", "fabricat",
}

// HighlightedMoments picks up to max bullets, highest judgment score first,
// keeping digest order among equal scores.
func HighlightedMoments(digests []DigestData, max int) []string {
	type scored struct {
		score int
		text  string
	}
	var all []scored
	for _, d := range digests {
		for _, b := range d.Bullets {
			lower := strings.ToLower(b)
			score := 0
			for _, w := range judgmentSignals {
				if strings.Contains(lower, w) {
					score++
				}
			}
			if strings.ContainsAny(b, `"'`) {
				score++
			}
			all = append(all, scored{score, b})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	if len(all) > max {
		all = all[:max]
	}
	out := make([]string, 0, len(all))
	for _, s := range all {
		out = append(out, s.text)
	}
	return out
}

func howIWork(synth []SynthesisData, digests []DigestData) string {
	if n := len(synth); n > 0 && len(synth[n-1].RecurringPatterns) > 0 {
		return strings.Join(synth[n-1].RecurringPatterns, " ")
	}
	var patterns []string
	for _, d := range digests {
		if d.Pattern == "" {
			continue
		}
		patterns = append(patterns, capitalize(d.Pattern))
	}
	return strings.Join(patterns, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func latestJoined(synth []SynthesisData, pick func(SynthesisData) []string) string {
	if len(synth) == 0 {
		return ""
	}
	return strings.Join(pick(synth[len(synth)-1]), " ")
}

// Build reads every digest and synthesis file and aggregates them.
// Missing directories count as empty.
func Build(digestDir, synthesisDir string) (*Data, error) {
	var digests []DigestData
	if err := eachMarkdown(digestDir, func(text string) {
		digests = append(digests, ParseDigest(text))
	}); err != nil {
		return nil, err
	}

	var synth []SynthesisData
	if err := eachMarkdown(synthesisDir, func(text string) {
		synth = append(synth, ParseSynthesis(text))
	}); err != nil {
		return nil, err
	}

	data := &Data{
		TotalSessions:      len(digests),
		HowIWork:           howIWork(synth, digests),
		HighlightedMoments: HighlightedMoments(digests, 5),
		EvolutionNarrative: latestJoined(synth, func(s SynthesisData) []string { return s.Evolution }),
		BeyondFluencyEvidence: latestJoined(synth, func(s SynthesisData) []string {
			return s.BeyondFluency
		}),
		Digests:   digests,
		Synthesis: synth,
	}

	var dates []string
	for _, d := range digests {
		if d.Date != "" {
			dates = append(dates, d.Date)
		}
	}
	if len(dates) > 0 {
		sort.Strings(dates)
		data.ActiveSince = dates[0]
		data.DateRange = dates[0]
		if len(dates) > 1 {
			data.DateRange = fmt.Sprintf("%s to %s", dates[0], dates[len(dates)-1])
		}
	}
	return data, nil
}

func eachMarkdown(dir string, fn func(text string)) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		fn(string(data))
	}
	return nil
}
