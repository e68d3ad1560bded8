// Package labels holds the tag tables and the bilingual UI strings.
//
// The tables are immutable and only reachable through the lookup functions,
// which never fail: an unknown tag renders with the fallback style and its
// raw name as the description.
package labels

import (
	"fmt"

	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// Style describes how a tag is drawn.  Hue names the palette entry shared by
// the web classes and the terminal colors.
type Style struct {
	Hue   string `json:"hue"`
	Class string `json:"class"`
}

func hue(h string) Style {
	return Style{Hue: h, Class: fmt.Sprintf("bg-%s-200 text-%s-900 border-%s-300", h, h, h)}
}

// FallbackStyle is used for tags missing from the tables.
var FallbackStyle = hue("gray")

// Label is the resolved presentation of one tag.
type Label struct {
	Tag         string                `json:"tag"`
	Known       bool                  `json:"known"`
	Style       Style                 `json:"style"`
	Description map[nlp.Locale]string `json:"description"`
}

// In returns the description for locale, falling back to English and then to
// the raw tag.
func (l Label) In(locale nlp.Locale) string {
	if d, ok := l.Description[locale]; ok && d != "" {
		return d
	}
	if d, ok := l.Description[nlp.LocaleEnglish]; ok && d != "" {
		return d
	}
	return l.Tag
}

type entry struct {
	tag   string
	style Style
	en    string
	ne    string
}

var nerTable = []entry{
	{"O", hue("blue"), "Other", "अन्य"},
	{"B-LOC", hue("green"), "Beginning of Location", "स्थानको सुरुवात"},
	{"B-PER", hue("purple"), "Beginning of Person", "व्यक्तिको सुरुवात"},
	{"B-ORG", hue("yellow"), "Beginning of Organization", "संस्थाको सुरुवात"},
	{"I-LOC", hue("lime"), "Inside Location", "स्थानभित्र"},
	{"I-PER", hue("pink"), "Inside Person", "व्यक्तिभित्र"},
	{"I-ORG", hue("teal"), "Inside Organization", "संस्थाभित्र"},
}

var posTable = []entry{
	{"CD", hue("cyan"), "Cardinal Number", "गणनावाचक संख्या"},
	{"JJ", hue("orange"), "Adjective", "विशेषण"},
	{"NNP", hue("green"), "Proper Noun", "व्यक्तिवाचक नाम"},
	{"POP", hue("green"), "Proper Noun", "व्यक्तिवाचक नाम"},
	{"NN", hue("blue"), "Common Noun", "जातिवाचक नाम"},
	{"PKO", hue("teal"), "Postposition", "नामयोगी"},
	{"VBX", hue("yellow"), "Infinitive Verb", "सामान्य क्रिया"},
	{"YF", hue("yellow"), "Sentence-final Punctuation", "वाक्यान्त चिह्न"},
	{"FB", hue("amber"), "Abbreviation", "संक्षिप्त रूप"},
	{"VBF", hue("yellow"), "Finite Verb", "समापिका क्रिया"},
	{"PLAI", hue("orange"), "Plural Indefinite Adjective", "बहुवचन अनिश्चित विशेषण"},
	{"DUM", hue("gray"), "Dummy", "डमी"},
	{"VBKO", hue("yellow"), "Aspect Verb", "पक्ष क्रिया"},
	{"RBO", hue("red"), "Adverb", "क्रियाविशेषण"},
	{"VBI", hue("yellow"), "Infinitive Verb", "सामान्य क्रिया"},
	{"VBO", hue("yellow"), "Other Verb", "अन्य क्रिया"},
	{"HRU", hue("blue"), "Human or Referent", "बहुवचन बोधक"},
	{"JJD", hue("orange"), "Degree Adjective", "तुलनात्मक विशेषण"},
	{"YM", hue("teal"), "Sentence-medial Punctuation", "वाक्यमध्य चिह्न"},
	{"PLE", hue("lime"), "Plural/Exclusive", "बहुवचन/अपवर्जी"},
	{"JJM", hue("orange"), "Marked Adjective", "चिह्नित विशेषण"},
	{"RP", hue("purple"), "Relative Pronoun", "सम्बन्धवाचक सर्वनाम"},
	{"VBNE", hue("yellow"), "Non-finite Verb", "असमापिका क्रिया"},
	{"CS", hue("pink"), "Subordinating Conjunction", "आश्रित संयोजक"},
	{"YQ", hue("amber"), "Quotation Marks", "उद्धरण चिह्न"},
	{"CL", hue("cyan"), "Classifier", "वर्गीकारक"},
	{"PP", hue("purple"), "Personal Pronoun", "पुरुषवाचक सर्वनाम"},
	{"PP$", hue("purple"), "Possessive Pronoun", "सम्बन्धबोधक सर्वनाम"},
	{"CC", hue("pink"), "Coordinating Conjunction", "समानाधिकरण संयोजक"},
	{"SYM", hue("gray"), "Symbol", "प्रतीक"},
	{"PPR", hue("purple"), "Proper Pronoun", "आदरार्थी सर्वनाम"},
	{"DM", hue("teal"), "Determiner", "निर्धारक"},
	{"OD", hue("yellow"), "Object", "कर्म"},
	{"QW", hue("red"), "Wh-Question Word", "प्रश्नवाचक शब्द"},
	{"UNW", hue("gray"), "Unclassified Word", "अवर्गीकृत शब्द"},
	{"RBM", hue("red"), "Modal Adverb", "भाववाचक क्रियाविशेषण"},
	{"FW", hue("blue"), "Foreign Word", "विदेशी शब्द"},
	{"YB", hue("amber"), "Brackets", "कोष्ठक"},
	{"ALPH", hue("cyan"), "Alphabet", "वर्ण"},
}

var (
	nerIndex = index(nerTable)
	posIndex = index(posTable)
)

func index(table []entry) map[string]int {
	m := make(map[string]int, len(table))
	for i, e := range table {
		m[e.tag] = i
	}
	return m
}

func tableFor(task nlp.Task) ([]entry, map[string]int) {
	switch task {
	case nlp.TaskNER:
		return nerTable, nerIndex
	case nlp.TaskPOS:
		return posTable, posIndex
	}
	return nil, nil
}

func (e entry) label() Label {
	return Label{
		Tag:   e.tag,
		Known: true,
		Style: e.style,
		Description: map[nlp.Locale]string{
			nlp.LocaleEnglish: e.en,
			nlp.LocaleNepali:  e.ne,
		},
	}
}

// Lookup resolves tag for task.  Unknown tags, and every tag of a task with
// no table, resolve to the fallback style with the raw tag as description.
func Lookup(task nlp.Task, tag string) Label {
	table, idx := tableFor(task)
	if i, ok := idx[tag]; ok {
		return table[i].label()
	}
	return Label{
		Tag:   tag,
		Style: FallbackStyle,
		Description: map[nlp.Locale]string{
			nlp.LocaleEnglish: tag,
			nlp.LocaleNepali:  tag,
		},
	}
}

// Legend returns every label of task in canonical order.
func Legend(task nlp.Task) []Label {
	table, _ := tableFor(task)
	out := make([]Label, len(table))
	for i, e := range table {
		out[i] = e.label()
	}
	return out
}

// LegendFor returns the labels of the given tags, in first-seen order and
// without duplicates.  Unknown tags are included with the fallback style.
func LegendFor(task nlp.Task, tags []string) []Label {
	seen := make(map[string]bool, len(tags))
	out := make([]Label, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, Lookup(task, t))
	}
	return out
}
