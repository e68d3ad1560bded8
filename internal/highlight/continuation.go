package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// ContinuationFunc reports whether a whitespace-delimited token attaches to
// the previous token without a word break.  The convention belongs to the
// tokenizer behind the inference service, so it is injected rather than
// hard-coded.
type ContinuationFunc func(token string) bool

// DefaultContinuationPrefix is the WordPiece-style sub-word prefix used by the
// Nepali tokenizer.
const DefaultContinuationPrefix = "##"

// PrefixContinuation matches tokens that start with prefix and are longer
// than it.  An empty prefix disables merging.
func PrefixContinuation(prefix string) ContinuationFunc {
	if prefix == "" {
		return NoContinuation
	}
	return func(token string) bool {
		return len(token) > len(prefix) && strings.HasPrefix(token, prefix)
	}
}

// NoContinuation never merges.
func NoContinuation(string) bool { return false }

// Token is one display unit of a completed sentence.
type Token struct {
	Text string `json:"text"`
	// Blank marks the token that holds (or absorbed) the filled-in word.
	Blank bool `json:"blank"`
}

// MergeContinuations merges every continuation token into the token before
// it.  The merged token is marked Blank if either part was.  A leading
// continuation token has nothing to attach to and is kept as is.
//
// strip removes the marker from the attached text; pass nil to keep tokens
// verbatim.
func MergeContinuations(tokens []Token, isContinuation ContinuationFunc, strip func(string) string) []Token {
	if isContinuation == nil {
		isContinuation = NoContinuation
	}
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if len(out) > 0 && isContinuation(tok.Text) {
			text := tok.Text
			if strip != nil {
				text = strip(text)
			}
			prev := &out[len(out)-1]
			prev.Text += text
			prev.Blank = prev.Blank || tok.Blank
			continue
		}
		out = append(out, tok)
	}
	return out
}

// MergeSpans folds sub-word annotations into the annotation before them so
// that each span names a surface word of the input.  The merged span keeps
// the category of its first piece.
func MergeSpans(spans []nlp.AnnotatedSpan, isContinuation ContinuationFunc, strip func(string) string) []nlp.AnnotatedSpan {
	if isContinuation == nil {
		isContinuation = NoContinuation
	}
	out := make([]nlp.AnnotatedSpan, 0, len(spans))
	for _, sp := range spans {
		if len(out) > 0 && isContinuation(sp.Text) {
			text := sp.Text
			if strip != nil {
				text = strip(text)
			}
			out[len(out)-1].Text += text
			continue
		}
		out = append(out, sp)
	}
	return out
}

// StripPrefix returns a strip function for MergeContinuations that removes
// prefix.
func StripPrefix(prefix string) func(string) string {
	return func(s string) string { return strings.TrimPrefix(s, prefix) }
}

// CompletedSentence fills the first blank of sentence with word and returns
// the whitespace-tokenized result with sub-word pieces merged.  The token (or
// tokens) produced from word are marked Blank.  When sentence has no blank
// the tokens of sentence are returned unmarked.
func CompletedSentence(sentence, blank, word string, isContinuation ContinuationFunc, strip func(string) string) []Token {
	idx := -1
	if blank != "" {
		idx = strings.Index(sentence, blank)
	}
	if idx < 0 {
		return MergeContinuations(tokenize(sentence, false), isContinuation, strip)
	}

	before := sentence[:idx]
	after := sentence[idx+len(blank):]
	// A blank written as a run ("_____") is one blank.
	for blank != "" && strings.HasPrefix(after, blank) {
		after = after[len(blank):]
	}

	// The word is glued to any non-space text on either side of the blank,
	// so the tokens touching it are part of the blank word too.
	var tokens []Token
	headTokens := tokenize(before, false)
	gluedLeft := before != "" && !endsWithSpace(before)
	gluedRight := after != "" && !startsWithSpace(after)

	wordTokens := tokenize(word, true)
	if len(wordTokens) == 0 {
		wordTokens = []Token{{Text: "", Blank: true}}
	}

	if gluedLeft && len(headTokens) > 0 {
		last := headTokens[len(headTokens)-1]
		headTokens = headTokens[:len(headTokens)-1]
		// The glue is already the merge, so the marker must go first.
		if isContinuation != nil && strip != nil && isContinuation(wordTokens[0].Text) {
			wordTokens[0].Text = strip(wordTokens[0].Text)
		}
		wordTokens[0].Text = last.Text + wordTokens[0].Text
	}
	tailTokens := tokenize(after, false)
	if gluedRight && len(tailTokens) > 0 {
		first := tailTokens[0]
		tailTokens = tailTokens[1:]
		wordTokens[len(wordTokens)-1].Text += first.Text
	}

	tokens = append(tokens, headTokens...)
	for _, wt := range wordTokens {
		if wt.Text == "" {
			continue
		}
		tokens = append(tokens, wt)
	}
	tokens = append(tokens, tailTokens...)
	return MergeContinuations(tokens, isContinuation, strip)
}

// MarkFilled marks the tokens of completed that were put into the blanks of
// sentence.  Words of sentence without a blank are matched against completed
// in order and every token left unmatched is marked Blank.  It is used when
// the server fills several blanks and returns only the finished sentence.
func MarkFilled(sentence, blank string, completed []Token) []Token {
	var literal []string
	for _, w := range strings.Fields(sentence) {
		if blank == "" || !strings.Contains(w, blank) {
			literal = append(literal, w)
		}
	}

	out := make([]Token, len(completed))
	j := 0
	for i, tok := range completed {
		out[i] = tok
		if j < len(literal) && tok.Text == literal[j] {
			j++
			continue
		}
		out[i].Blank = true
	}
	return out
}

// JoinTokens renders tokens separated by single spaces.
func JoinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

func tokenize(s string, blank bool) []Token {
	fields := strings.Fields(s)
	out := make([]Token, len(fields))
	for i, f := range fields {
		out[i] = Token{Text: f, Blank: blank}
	}
	return out
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}
