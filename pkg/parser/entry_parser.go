package parser

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	meaningMarker = "Korean:"
	answerMarker  = "answer:"

	defaultMaxHeadwordTokens = 4
	defaultMinSentenceWords  = 3
)

// LineKind is the category a trimmed document line is classified into.
type LineKind int

const (
	LineBlank LineKind = iota
	LineHeadword
	LineMeaning
	LineSentence
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineHeadword:
		return "headword"
	case LineMeaning:
		return "meaning"
	case LineSentence:
		return "sentence"
	default:
		return "unknown"
	}
}

// Options tunes the line grammar. Zero values fall back to defaults.
type Options struct {
	// MaxHeadwordTokens is the largest number of whitespace separated
	// tokens a headword line may have.
	MaxHeadwordTokens int
	// Strict drops unnumbered sentence lines shorter than MinSentenceWords.
	Strict           bool
	MinSentenceWords int
	// DefaultMeaning is assigned to entries that never got a meaning line.
	DefaultMeaning string
}

func DefaultOptions() Options {
	return Options{
		MaxHeadwordTokens: defaultMaxHeadwordTokens,
		MinSentenceWords:  defaultMinSentenceWords,
	}
}

// Fingerprint identifies the split into entries o produces. Options that
// parse the same way after defaults are applied share a fingerprint.
func (o Options) Fingerprint() string {
	o = o.withDefaults()
	return fmt.Sprintf("tokens=%d;strict=%t;words=%d;default=%q",
		o.MaxHeadwordTokens, o.Strict, o.MinSentenceWords, o.DefaultMeaning)
}

type classifier struct {
	kind  LineKind
	match func(line string) bool
}

// Parser turns document lines into entries. It keeps no state between
// calls, so one Parser may be shared between goroutines.
type Parser struct {
	opts        Options
	classifiers []classifier
}

func (o Options) withDefaults() Options {
	if o.MaxHeadwordTokens < 1 {
		o.MaxHeadwordTokens = defaultMaxHeadwordTokens
	}
	if o.MinSentenceWords < 1 {
		o.MinSentenceWords = defaultMinSentenceWords
	}
	return o
}

func New(opts Options) *Parser {
	p := &Parser{opts: opts.withDefaults()}
	// Order matters: the first matching classifier wins.
	p.classifiers = []classifier{
		{kind: LineBlank, match: isBlank},
		{kind: LineHeadword, match: p.isHeadword},
		{kind: LineMeaning, match: isMeaning},
		{kind: LineSentence, match: isSentence},
	}
	return p
}

// Options returns the effective options of p.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse parses lines with DefaultOptions.
func Parse(lines []string) []*Entry {
	return New(DefaultOptions()).Parse(lines)
}

// Classify returns the category of line after trimming it.
func (p *Parser) Classify(line string) LineKind {
	line = strings.TrimSpace(line)
	for _, c := range p.classifiers {
		if c.match(line) {
			return c.kind
		}
	}
	return LineSentence
}

// Parse scans lines once and returns entries in headword order. It never
// fails: lines that can not be attached to an open entry are dropped.
//
// A short line made only of letters is always taken as a headword, even
// when it was meant as a one-word example sentence.
func (p *Parser) Parse(lines []string) []*Entry {
	entries := make([]*Entry, 0)
	var current *Entry
	flush := func() {
		if current == nil {
			return
		}
		if current.Meaning == "" {
			current.Meaning = p.opts.DefaultMeaning
		}
		entries = append(entries, current)
		current = nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch p.Classify(line) {
		case LineBlank:
			continue
		case LineHeadword:
			flush()
			current = newEntry(line)
		case LineMeaning:
			if current != nil {
				current.Meaning = extractMeaning(line)
			}
		case LineSentence:
			if current == nil || strings.HasPrefix(line, meaningMarker) {
				continue
			}
			if sentence, ok := p.sentence(line); ok {
				current.Sentences = append(current.Sentences, sentence)
			}
		}
	}
	flush()
	return entries
}

// sentence strips a leading "12." or "3)" and applies the strict length rule.
func (p *Parser) sentence(line string) (string, bool) {
	stripped := numberPrefixRegexp.ReplaceAllString(line, "")
	numbered := len(stripped) != len(line)
	stripped = strings.TrimSpace(stripped)
	if p.opts.Strict && !numbered && len(strings.Fields(stripped)) < p.opts.MinSentenceWords {
		return "", false
	}
	return stripped, true
}

// Unicode spaces are allowed too, documents often put NBSP between words.
var headwordRegexp = regexp.MustCompile(`^[a-zA-Z\s\p{Zs}\-]+$`)

var numberPrefixRegexp = regexp.MustCompile(`^\d+[.)]`)

func isBlank(line string) bool {
	return line == ""
}

func (p *Parser) isHeadword(line string) bool {
	return headwordRegexp.MatchString(line) && len(strings.Fields(line)) <= p.opts.MaxHeadwordTokens
}

func isMeaning(line string) bool {
	return strings.Contains(line, meaningMarker)
}

func isSentence(line string) bool {
	return !isBlank(line) && !strings.HasPrefix(line, meaningMarker)
}

// extractMeaning returns the text between the first meaning marker and the
// next meaning or answer marker.
func extractMeaning(line string) string {
	parts := strings.SplitN(line, meaningMarker, 3)
	if len(parts) < 2 {
		return ""
	}
	meaning := parts[1]
	if i := strings.Index(meaning, answerMarker); i >= 0 {
		meaning = meaning[:i]
	}
	return strings.TrimSpace(meaning)
}
