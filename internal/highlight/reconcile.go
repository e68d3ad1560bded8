// Package highlight turns the annotations returned by the inference service
// into an ordered list of display segments over the original input.
//
// The service does not return offsets, so each annotation is located by
// searching the input.  A cursor advances past every match, which makes
// repeated surface forms resolve left to right: each annotation consumes the
// next unconsumed occurrence and never an earlier one.
package highlight

import (
	"sort"
	"strings"

	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// SegmentKind distinguishes plain runs from annotated runs.
type SegmentKind int

const (
	SegmentPlain SegmentKind = iota
	SegmentAnnotated
)

func (k SegmentKind) String() string {
	if k == SegmentAnnotated {
		return "annotated"
	}
	return "plain"
}

// MarshalText encodes the kind by name.
func (k SegmentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Segment is a contiguous run of the original input, either unannotated or
// carrying exactly one category.
type Segment struct {
	Kind     SegmentKind `json:"kind"`
	Text     string      `json:"text"`
	Category string      `json:"category,omitempty"`
}

// Plain constructs a plain run.
func Plain(text string) Segment { return Segment{Kind: SegmentPlain, Text: text} }

// Annotated constructs an annotated run.
func Annotated(text, category string) Segment {
	return Segment{Kind: SegmentAnnotated, Text: text, Category: category}
}

// IsAnnotated reports whether the segment carries a category.
func (s Segment) IsAnnotated() bool { return s.Kind == SegmentAnnotated }

// ReconcileStats summarizes a reconciliation pass.
type ReconcileStats struct {
	Matched int
	Dropped int
}

// Reconcile walks original and the annotations, in the order given, and
// returns segments covering the whole input exactly once.
//
// An annotation whose text does not occur at or after the cursor is skipped
// and the cursor is left unchanged.  An empty annotation list yields a single
// plain run; an empty input yields no segments.
func Reconcile(original string, annotations []nlp.AnnotatedSpan) []Segment {
	segs, _ := ReconcileWithStats(original, annotations)
	return segs
}

// ReconcileWithStats is Reconcile that also reports how many annotations
// were matched and dropped.
func ReconcileWithStats(original string, annotations []nlp.AnnotatedSpan) ([]Segment, ReconcileStats) {
	var (
		stats     ReconcileStats
		segs      = make([]Segment, 0, 2*len(annotations)+1)
		lastIndex = 0
	)

	for _, a := range annotations {
		// Zero-width matches would stall the cursor; treat them as misses.
		if a.Text == "" {
			stats.Dropped++
			continue
		}
		rel := strings.Index(original[lastIndex:], a.Text)
		if rel < 0 {
			stats.Dropped++
			continue
		}
		start := lastIndex + rel
		end := start + len(a.Text)

		if start > lastIndex {
			segs = append(segs, Plain(original[lastIndex:start]))
		}
		segs = append(segs, Annotated(original[start:end], a.Category))
		lastIndex = end
		stats.Matched++
	}

	if lastIndex < len(original) {
		segs = append(segs, Plain(original[lastIndex:]))
	}
	return segs, stats
}

// ReconcileSorted is the position-sorted variant used for simulated
// annotations, which are produced independently of each other.  Each
// annotation is located from the start of the input, the matches are ordered
// by position and a match overlapping an earlier one is dropped.
func ReconcileSorted(original string, annotations []nlp.AnnotatedSpan) []Segment {
	segs, _ := ReconcileSortedWithStats(original, annotations)
	return segs
}

// ReconcileSortedWithStats is ReconcileSorted that also counts matches and
// drops.  Annotations that are missing and those that overlap are both
// counted as dropped.
func ReconcileSortedWithStats(original string, annotations []nlp.AnnotatedSpan) ([]Segment, ReconcileStats) {
	type match struct {
		start, end int
		category   string
		order      int
	}

	var stats ReconcileStats
	matches := make([]match, 0, len(annotations))
	for i, a := range annotations {
		if a.Text == "" {
			stats.Dropped++
			continue
		}
		idx := strings.Index(original, a.Text)
		if idx < 0 {
			stats.Dropped++
			continue
		}
		matches = append(matches, match{start: idx, end: idx + len(a.Text), category: a.Category, order: i})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].start != matches[j].start {
			return matches[i].start < matches[j].start
		}
		return matches[i].order < matches[j].order
	})

	segs := make([]Segment, 0, 2*len(matches)+1)
	lastIndex := 0
	for _, m := range matches {
		if m.start < lastIndex {
			stats.Dropped++
			continue
		}
		if m.start > lastIndex {
			segs = append(segs, Plain(original[lastIndex:m.start]))
		}
		segs = append(segs, Annotated(original[m.start:m.end], m.category))
		lastIndex = m.end
		stats.Matched++
	}
	if lastIndex < len(original) {
		segs = append(segs, Plain(original[lastIndex:]))
	}
	return segs, stats
}

// Text concatenates the segment texts.  For a reconciliation in which every
// annotation matched, Text(Reconcile(s, a)) == s.
func Text(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Categories returns the distinct categories of the annotated segments in
// first-seen order.
func Categories(segs []Segment) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range segs {
		if !s.IsAnnotated() || seen[s.Category] {
			continue
		}
		seen[s.Category] = true
		out = append(out, s.Category)
	}
	return out
}
