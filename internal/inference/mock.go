package inference

import (
	"context"
	"hash/fnv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/turtacn/sabdamanthan/internal/nepali"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// MockSuggestions are the words offered by the simulated backend, best first.
var MockSuggestions = []nlp.Candidate{
	{Word: "राम्रो", Probability: 0.42},
	{Word: "सुन्दर", Probability: 0.23},
	{Word: "ठूलो", Probability: 0.16},
	{Word: "सानो", Probability: 0.11},
	{Word: "नयाँ", Probability: 0.08},
}

type gazetteerEntry struct {
	words []string
	kind  string
}

// gazetteer lists multi-word names before their single-word prefixes so the
// longest match wins.
var gazetteer = []gazetteerEntry{
	{[]string{"नेपाल", "राष्ट्र", "बैंक"}, "ORG"},
	{[]string{"त्रिभुवन", "विश्वविद्यालय"}, "ORG"},
	{[]string{"नेपाल", "सरकार"}, "ORG"},
	{[]string{"पुष्पकमल", "दाहाल"}, "PER"},
	{[]string{"शेरबहादुर", "देउवा"}, "PER"},
	{[]string{"काठमाडौं"}, "LOC"},
	{[]string{"पोखरा"}, "LOC"},
	{[]string{"ललितपुर"}, "LOC"},
	{[]string{"भक्तपुर"}, "LOC"},
	{[]string{"विराटनगर"}, "LOC"},
	{[]string{"नेपाल"}, "LOC"},
	{[]string{"भारत"}, "LOC"},
	{[]string{"हिमालय"}, "LOC"},
	{[]string{"राम"}, "PER"},
	{[]string{"सीता"}, "PER"},
	{[]string{"गीता"}, "PER"},
}

var postpositions = map[string]bool{
	"मा": true, "को": true, "का": true, "की": true, "ले": true,
	"लाई": true, "बाट": true, "सँग": true, "देखि": true, "सम्म": true,
}

// mockPOSTags is the rotation used for words the rules do not classify.
var mockPOSTags = []string{"NN", "NNP", "JJ", "VBF", "VBX", "RBO", "PP", "CC", "DM", "HRU"}

// Mock is a deterministic stand-in for the inference service.  It never
// fails on its own; it only reports context cancellation.
type Mock struct {
	delay     time.Duration
	maskToken string
}

// MockOption configures NewMock.
type MockOption func(*Mock)

// WithMockDelay makes every call take d, like a slow backend.
func WithMockDelay(d time.Duration) MockOption { return func(m *Mock) { m.delay = d } }

// WithMockMaskToken sets the token that marks blanks in fill-mask input.
func WithMockMaskToken(token string) MockOption {
	return func(m *Mock) {
		if token != "" {
			m.maskToken = token
		}
	}
}

// NewMock returns a simulated backend.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{maskToken: nepali.DefaultMaskToken}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mock) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FillMask offers MockSuggestions for one blank.  With several blanks every
// blank gets the top suggestion and only the completed sentence is returned.
func (m *Mock) FillMask(ctx context.Context, maskedText string) (*nlp.FillResult, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if strings.Count(maskedText, m.maskToken) > 1 {
		return &nlp.FillResult{Completed: strings.ReplaceAll(maskedText, m.maskToken, MockSuggestions[0].Word)}, nil
	}
	return &nlp.FillResult{Candidates: append([]nlp.Candidate(nil), MockSuggestions...)}, nil
}

// NER tags gazetteer names with B-/I- labels and everything else with O.  A
// name followed by a case marker, as in काठमाडौंमा, is split into the name
// and an O remainder.
func (m *Mock) NER(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	words := strings.Fields(text)
	spans := make([]nlp.AnnotatedSpan, 0, len(words))
	for i := 0; i < len(words); {
		entry, rest, ok := matchGazetteer(words[i:])
		if !ok {
			spans = append(spans, nlp.AnnotatedSpan{Text: words[i], Category: "O"})
			i++
			continue
		}
		for j, w := range entry.words {
			prefix := "I-"
			if j == 0 {
				prefix = "B-"
			}
			spans = append(spans, nlp.AnnotatedSpan{Text: w, Category: prefix + entry.kind})
		}
		if rest != "" {
			spans = append(spans, nlp.AnnotatedSpan{Text: rest, Category: "O"})
		}
		i += len(entry.words)
	}
	return spans, nil
}

// matchGazetteer returns the first entry matching the start of words and the
// unmatched tail of the last word.
func matchGazetteer(words []string) (gazetteerEntry, string, bool) {
	for _, e := range gazetteer {
		if len(e.words) > len(words) {
			continue
		}
		last := len(e.words) - 1
		ok := true
		for j := 0; j < last; j++ {
			if words[j] != e.words[j] {
				ok = false
				break
			}
		}
		if ok && strings.HasPrefix(words[last], e.words[last]) {
			return e, strings.TrimPrefix(words[last], e.words[last]), true
		}
	}
	return gazetteerEntry{}, "", false
}

// POS tags each whitespace token.  Trailing sentence punctuation is split off
// and tagged on its own.
func (m *Mock) POS(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	var spans []nlp.AnnotatedSpan
	for _, w := range strings.Fields(text) {
		word, punct := splitTrailingPunct(w)
		if word != "" {
			spans = append(spans, nlp.AnnotatedSpan{Text: word, Category: mockTag(word)})
		}
		if punct != "" {
			spans = append(spans, nlp.AnnotatedSpan{Text: punct, Category: punctTag(punct)})
		}
	}
	return spans, nil
}

// Ping always succeeds.
func (m *Mock) Ping(ctx context.Context) error { return ctx.Err() }

func splitTrailingPunct(w string) (string, string) {
	end := len(w)
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(w[:end])
		if !isPunct(r) {
			break
		}
		end -= size
	}
	return w[:end], w[end:]
}

func isPunct(r rune) bool {
	return r == '।' || r == '॥' || unicode.IsPunct(r)
}

func punctTag(p string) string {
	switch {
	case strings.ContainsAny(p, "।॥?!"):
		return "YF"
	case strings.ContainsAny(p, `"'`):
		return "YQ"
	case strings.ContainsAny(p, "()[]{}"):
		return "YB"
	}
	return "YM"
}

func mockTag(word string) string {
	if isNumber(word) {
		return "CD"
	}
	if postpositions[word] {
		return "PKO"
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(word))
	return mockPOSTags[h.Sum32()%uint32(len(mockPOSTags))]
}

func isNumber(word string) bool {
	for _, r := range word {
		if !(r >= '०' && r <= '९') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return word != ""
}
