package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// Segment is one run of highlighted text.  Unannotated runs have no Tag.
type Segment struct {
	Text        string `json:"text"`
	Annotated   bool   `json:"annotated"`
	Tag         string `json:"tag,omitempty"`
	Known       bool   `json:"known,omitempty"`
	Hue         string `json:"hue,omitempty"`
	Class       string `json:"class,omitempty"`
	Description string `json:"description,omitempty"`
}

// LegendEntry describes one tag.
type LegendEntry struct {
	Tag         string `json:"tag"`
	Hue         string `json:"hue"`
	Class       string `json:"class"`
	Description string `json:"description"`
}

// Suggestion is one fill-mask candidate.
type Suggestion struct {
	Word        string  `json:"word"`
	Display     string  `json:"display"`
	Probability float64 `json:"probability"`
	Percent     string  `json:"percent"`
	Top         bool    `json:"top"`
	Selected    bool    `json:"selected"`
}

// Token is one word of the completed fill-mask sentence.
type Token struct {
	Text  string `json:"text"`
	Blank bool   `json:"blank"`
}

// Prediction is the server's answer for one panel submission.
type Prediction struct {
	Task       nlp.Task      `json:"task"`
	Segments   []Segment     `json:"segments,omitempty"`
	UsedTags   []LegendEntry `json:"used_tags,omitempty"`
	Dropped    int           `json:"dropped,omitempty"`
	Candidates []Suggestion  `json:"candidates,omitempty"`
	Selected   string        `json:"selected,omitempty"`
	Completed  []Token       `json:"completed,omitempty"`
}

// Sentence joins the completed fill-mask tokens with single spaces.
func (p *Prediction) Sentence() string {
	words := make([]string, len(p.Completed))
	for i, t := range p.Completed {
		words[i] = t.Text
	}
	return strings.Join(words, " ")
}

type predictRequest struct {
	Text string `json:"text"`
	Pick string `json:"pick,omitempty"`
}

// Predict submits text to the task's panel.  pick, when non-empty, selects
// that fill-mask suggestion instead of the top one.
func (c *Client) Predict(ctx context.Context, task nlp.Task, text, pick string) (*Prediction, error) {
	var out Prediction
	path := "/api/v1/" + url.PathEscape(string(task))
	if err := c.do(ctx, "POST", path, predictRequest{Text: text, Pick: pick}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NER tags named entities in text.
func (c *Client) NER(ctx context.Context, text string) (*Prediction, error) {
	return c.Predict(ctx, nlp.TaskNER, text, "")
}

// POS tags parts of speech in text.
func (c *Client) POS(ctx context.Context, text string) (*Prediction, error) {
	return c.Predict(ctx, nlp.TaskPOS, text, "")
}

// FillMask suggests words for the "_" blank in text.
func (c *Client) FillMask(ctx context.Context, text string) (*Prediction, error) {
	return c.Predict(ctx, nlp.TaskFillMask, text, "")
}

// Tags returns the legend of a tagging task.
func (c *Client) Tags(ctx context.Context, task nlp.Task) ([]LegendEntry, error) {
	var out struct {
		Tags []LegendEntry `json:"tags"`
	}
	if err := c.do(ctx, "GET", "/api/v1/tags/"+url.PathEscape(string(task)), nil, &out); err != nil {
		return nil, err
	}
	return out.Tags, nil
}
