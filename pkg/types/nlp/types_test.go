package nlp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTask(t *testing.T) {
	cases := map[string]Task{
		"fill-mask":  TaskFillMask,
		"fill-blank": TaskFillMask,
		" NER ":      TaskNER,
		"pos":        TaskPOS,
	}
	for in, want := range cases {
		got, err := ParseTask(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		assert.True(t, got.IsValid())
	}

	_, err := ParseTask("sentiment")
	assert.Error(t, err)
	assert.False(t, Task("sentiment").IsValid())
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, LocaleNepali, ParseLocale("ne"))
	assert.Equal(t, LocaleNepali, ParseLocale("ne-NP"))
	assert.Equal(t, LocaleEnglish, ParseLocale("en"))
	assert.Equal(t, LocaleEnglish, ParseLocale(""))
	assert.Equal(t, LocaleNepali, LocaleEnglish.Toggle())
	assert.Equal(t, LocaleEnglish, LocaleNepali.Toggle())
}

func TestCandidate_JSONPair(t *testing.T) {
	var got []Candidate
	require.NoError(t, json.Unmarshal([]byte(`[["राम्रो",0.8],["ठूलो",0.1]]`), &got))
	assert.Equal(t, []Candidate{{"राम्रो", 0.8}, {"ठूलो", 0.1}}, got)

	out, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.JSONEq(t, `["राम्रो",0.8]`, string(out))
}

func TestCandidate_RejectsBadShapes(t *testing.T) {
	var c Candidate
	assert.Error(t, json.Unmarshal([]byte(`["only-word"]`), &c))
	assert.Error(t, json.Unmarshal([]byte(`[1, 0.5]`), &c))
	assert.Error(t, json.Unmarshal([]byte(`["w", "high"]`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"word":"w"}`), &c))
}

func TestAnnotatedSpan_WireNames(t *testing.T) {
	var spans []AnnotatedSpan
	require.NoError(t, json.Unmarshal([]byte(`[{"text":"रामले","type":"B-PER"}]`), &spans))
	assert.Equal(t, []AnnotatedSpan{{Text: "रामले", Category: "B-PER"}}, spans)
}
