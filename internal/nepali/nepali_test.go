package nepali

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

func TestIsNepaliText(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"hello", false},
		{"राम", true},
		{"_ २०७८", true},
		{"।", false},
		{"॥ । ", false},
		{"___ !!", false},
		{"", false},
		{"hello राम", true},
		{"123", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsNepaliText(tc.in), "IsNepaliText(%q)", tc.in)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "\u00e9", Normalize("  e\u0301\n"))
	assert.Equal(t, "राम", Normalize("राम"))
}

func TestValidate_Order(t *testing.T) {
	cases := []struct {
		name string
		task nlp.Task
		in   string
		key  string
	}{
		{"empty", nlp.TaskNER, "", KeyEmptyInput},
		{"whitespace only", nlp.TaskFillMask, "   ", KeyEmptyInput},
		{"missing blank before script", nlp.TaskFillMask, "hello", KeyMissingBlank},
		{"missing blank nepali", nlp.TaskFillMask, "यो घर हो", KeyMissingBlank},
		{"not nepali with blank", nlp.TaskFillMask, "this is _", KeyNotNepali},
		{"not nepali ner", nlp.TaskNER, "hello", KeyNotNepali},
		{"danda only", nlp.TaskPOS, "।", KeyNotNepali},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.task, tc.in)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
			ae, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tc.key, ae.Key)
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	assert.NoError(t, Validate(nlp.TaskFillMask, "हाम्रो _ घर"))
	assert.NoError(t, Validate(nlp.TaskNER, "रामले काठमाडौंमा"))
	assert.NoError(t, Validate(nlp.TaskPOS, "मैले किताब पढें।"))
}

func TestPrepareMask(t *testing.T) {
	assert.Equal(t, "हाम्रो <mask> घर", PrepareMask("हाम्रो _ घर"))
	assert.Equal(t, "हाम्रो <mask> वर्षको", PrepareMask("हाम्रो _____ वर्षको"))
	assert.Equal(t, "<mask> र <mask>", PrepareMask("__ र _"))
	assert.Equal(t, "क [MASK] ख", PrepareMaskWith("क _ ख", "[MASK]"))
	assert.Equal(t, "यो घर", PrepareMask("यो घर"))
}
