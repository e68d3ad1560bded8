package highlight

import (
	"fmt"
	"sort"

	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// RankCandidates returns a copy of candidates ordered strictly by descending
// probability.  Ties keep their server order.
func RankCandidates(candidates []nlp.Candidate) []nlp.Candidate {
	out := make([]nlp.Candidate, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})
	return out
}

// Selection tracks which candidate fills the blank.  Exactly one candidate
// is selected when the list is non-empty; none otherwise.
type Selection struct {
	candidates []nlp.Candidate
	selected   int
}

// NewSelection ranks candidates and selects the highest-probability one.
func NewSelection(candidates []nlp.Candidate) *Selection {
	s := &Selection{candidates: RankCandidates(candidates), selected: -1}
	if len(s.candidates) > 0 {
		s.selected = 0
	}
	return s
}

// Candidates returns the ranked list.
func (s *Selection) Candidates() []nlp.Candidate {
	if s == nil {
		return nil
	}
	return s.candidates
}

// Select overrides the default with word.  Selecting a word not in the list
// is an error and leaves the selection unchanged.
func (s *Selection) Select(word string) error {
	if s == nil {
		return fmt.Errorf("select %q: no candidates", word)
	}
	for i, c := range s.candidates {
		if c.Word == word {
			s.selected = i
			return nil
		}
	}
	return fmt.Errorf("select %q: not a candidate", word)
}

// Selected returns the selected candidate, or false when there are none.
func (s *Selection) Selected() (nlp.Candidate, bool) {
	if s == nil || s.selected < 0 {
		return nlp.Candidate{}, false
	}
	return s.candidates[s.selected], true
}

// SelectedWord returns the selected word or "".
func (s *Selection) SelectedWord() string {
	c, _ := s.Selected()
	return c.Word
}

// IsTop reports whether word is the highest-probability candidate.
func (s *Selection) IsTop(word string) bool {
	return s != nil && len(s.candidates) > 0 && s.candidates[0].Word == word
}

// IsSelected reports whether word is the current selection.
func (s *Selection) IsSelected(word string) bool {
	c, ok := s.Selected()
	return ok && c.Word == word
}
