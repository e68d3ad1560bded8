package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

func TestRankCandidates_DescendingAndStable(t *testing.T) {
	in := []nlp.Candidate{{Word: "ठूलो", Probability: 0.1}, {Word: "राम्रो", Probability: 0.8}, {Word: "सानो", Probability: 0.1}, {Word: "नयाँ", Probability: 0.05}}
	got := RankCandidates(in)

	assert.Equal(t, []nlp.Candidate{{Word: "राम्रो", Probability: 0.8}, {Word: "ठूलो", Probability: 0.1}, {Word: "सानो", Probability: 0.1}, {Word: "नयाँ", Probability: 0.05}}, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Probability, got[i].Probability)
	}
	// Input is not modified.
	assert.Equal(t, "ठूलो", in[0].Word)
}

func TestSelection_DefaultsToTop(t *testing.T) {
	s := NewSelection([]nlp.Candidate{{Word: "ठूलो", Probability: 0.1}, {Word: "राम्रो", Probability: 0.8}})

	c, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "राम्रो", c.Word)
	assert.True(t, s.IsTop("राम्रो"))
	assert.True(t, s.IsSelected("राम्रो"))
}

func TestSelection_OverrideKeepsTopMarker(t *testing.T) {
	s := NewSelection([]nlp.Candidate{{Word: "राम्रो", Probability: 0.8}, {Word: "ठूलो", Probability: 0.1}})

	require.NoError(t, s.Select("ठूलो"))
	assert.Equal(t, "ठूलो", s.SelectedWord())
	assert.True(t, s.IsTop("राम्रो"))
	assert.False(t, s.IsSelected("राम्रो"))

	assert.Error(t, s.Select("हरियो"))
	assert.Equal(t, "ठूलो", s.SelectedWord())
}

func TestSelection_EmptyHasNoSelection(t *testing.T) {
	s := NewSelection(nil)
	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Empty(t, s.SelectedWord())
	assert.False(t, s.IsTop(""))
	assert.Error(t, s.Select("राम्रो"))

	var nilSel *Selection
	assert.Nil(t, nilSel.Candidates())
	assert.Empty(t, nilSel.SelectedWord())
}
