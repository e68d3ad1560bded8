package inference

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/turtacn/sabdamanthan/internal/highlight"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// tokenLine matches the service's single-mask output, e.g.
// "Token: राम्रो (probability: 0.4210)".
var tokenLine = regexp.MustCompile(`^\s*Token:\s*(.*?)\s*\(probability:\s*([0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)\)\s*$`)

// DecodeFillMask decodes a fill-mask response.  Three body shapes are
// accepted, tried in order:
//
//	[["राम्रो", 0.42], ...]                   ranked candidates
//	["Token: राम्रो (probability: 0.4200)"]   ranked candidates
//	["पूरा भएको वाक्य"]                       completed sentence (several blanks)
//
// Candidates are returned sorted by descending probability.
func DecodeFillMask(body []byte) (*nlp.FillResult, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errors.NewFormat("fill-mask: body is not a JSON array").WithCause(err)
	}
	if len(items) == 0 {
		return &nlp.FillResult{}, nil
	}

	if cands, ok := decodePairs(items); ok {
		return &nlp.FillResult{Candidates: highlight.RankCandidates(cands)}, nil
	}

	lines := make([]string, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &lines[i]); err != nil {
			return nil, errors.NewFormat(fmt.Sprintf("fill-mask: element %d is neither a pair nor a string", i))
		}
	}
	if cands, ok := parseTokenLines(lines); ok {
		return &nlp.FillResult{Candidates: highlight.RankCandidates(cands)}, nil
	}
	if len(lines) == 1 {
		return &nlp.FillResult{Completed: lines[0]}, nil
	}
	return nil, errors.NewFormat(fmt.Sprintf("fill-mask: %d unrecognized strings", len(lines)))
}

func decodePairs(items []json.RawMessage) ([]nlp.Candidate, bool) {
	out := make([]nlp.Candidate, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &out[i]); err != nil {
			return nil, false
		}
	}
	return out, true
}

func parseTokenLines(lines []string) ([]nlp.Candidate, bool) {
	out := make([]nlp.Candidate, 0, len(lines))
	for _, line := range lines {
		m := tokenLine.FindStringSubmatch(line)
		if m == nil {
			return nil, false
		}
		p, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, false
		}
		out = append(out, nlp.Candidate{Word: m[1], Probability: p})
	}
	return out, true
}

type wireSpan struct {
	Text *string `json:"text"`
	Type *string `json:"type"`
}

// DecodeSpans decodes a NER or POS response: a JSON array of
// {"text", "type"} objects in document order.  Both fields are required.
func DecodeSpans(body []byte) ([]nlp.AnnotatedSpan, error) {
	var items []wireSpan
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errors.NewFormat("spans: body is not an array of {text, type}").WithCause(err)
	}
	out := make([]nlp.AnnotatedSpan, len(items))
	for i, it := range items {
		if it.Text == nil || it.Type == nil {
			return nil, errors.NewFormat(fmt.Sprintf("spans: element %d lacks text or type", i))
		}
		out[i] = nlp.AnnotatedSpan{Text: *it.Text, Category: *it.Type}
	}
	return out, nil
}
