package parser

// Entry is one vocabulary item assembled from a headword line and the
// meaning and sentence lines that follow it.
type Entry struct {
	Word      string   `json:"word" yaml:"word"`
	Meaning   string   `json:"meaning" yaml:"meaning"`
	Sentences []string `json:"sentences" yaml:"sentences"`
	// Solved is owned by the caller; the parser always leaves it false.
	Solved bool `json:"solved" yaml:"solved"`
}

func newEntry(word string) *Entry {
	return &Entry{
		Word:      word,
		Sentences: []string{},
	}
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Sentences = append(make([]string, 0, len(e.Sentences)), e.Sentences...)
	return &c
}
