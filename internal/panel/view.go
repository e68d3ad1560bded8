package panel

import (
	"fmt"

	"github.com/turtacn/sabdamanthan/internal/highlight"
	"github.com/turtacn/sabdamanthan/internal/labels"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// SegmentView is a highlight segment with its label resolved.
type SegmentView struct {
	Text        string `json:"text"`
	Annotated   bool   `json:"annotated"`
	Tag         string `json:"tag,omitempty"`
	Known       bool   `json:"known,omitempty"`
	Hue         string `json:"hue,omitempty"`
	Class       string `json:"class,omitempty"`
	Description string `json:"description,omitempty"`
}

// LegendEntry is one row of a tag legend.
type LegendEntry struct {
	Tag         string `json:"tag"`
	Hue         string `json:"hue"`
	Class       string `json:"class"`
	Description string `json:"description"`
}

// CandidateView is one suggestion button.
type CandidateView struct {
	Word        string  `json:"word"`
	Display     string  `json:"display"`
	Probability float64 `json:"probability"`
	Percent     string  `json:"percent"`
	Top         bool    `json:"top"`
	Selected    bool    `json:"selected"`
}

// View is an immutable snapshot of a panel prepared for one locale.
type View struct {
	Task       nlp.Task            `json:"task"`
	Input      string              `json:"input"`
	Processed  bool                `json:"processed"`
	Busy       bool                `json:"busy"`
	Segments   []SegmentView       `json:"segments,omitempty"`
	Dropped    int                 `json:"dropped,omitempty"`
	UsedTags   []LegendEntry       `json:"used_tags,omitempty"`
	Legend     []LegendEntry       `json:"legend,omitempty"`
	Candidates []CandidateView     `json:"candidates,omitempty"`
	Selected   string              `json:"selected,omitempty"`
	Completed  []highlight.Token   `json:"completed,omitempty"`
	Error      string              `json:"error,omitempty"`
	ErrorCode  string              `json:"error_code,omitempty"`
	Strings    labels.PanelStrings `json:"-"`
}

// HasResult reports whether there is anything to show below the form.
func (v View) HasResult() bool {
	return len(v.Segments) > 0 || len(v.Candidates) > 0 || len(v.Completed) > 0
}

// View snapshots the panel for locale.
func (p *Panel) View(locale nlp.Locale) View {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v := View{
		Task:      p.task,
		Input:     p.input,
		Processed: p.processed,
		Busy:      p.busy.Load(),
		Dropped:   p.dropped,
		Legend:    LegendEntries(labels.Legend(p.task), locale),
		Strings:   labels.Messages(locale).Panel(p.task),
	}

	if len(p.segments) > 0 {
		v.Segments = make([]SegmentView, len(p.segments))
		for i, seg := range p.segments {
			v.Segments[i] = segmentView(p.task, seg, locale)
		}
		v.UsedTags = LegendEntries(labels.LegendFor(p.task, highlight.Categories(p.segments)), locale)
	}

	if cands := p.selection.Candidates(); len(cands) > 0 {
		v.Candidates = make([]CandidateView, len(cands))
		for i, c := range cands {
			v.Candidates[i] = CandidateView{
				Word:        c.Word,
				Display:     p.strip(c.Word),
				Probability: c.Probability,
				Percent:     fmt.Sprintf("%.1f%%", c.Probability*100),
				Top:         p.selection.IsTop(c.Word),
				Selected:    p.selection.IsSelected(c.Word),
			}
		}
		v.Selected = p.selection.SelectedWord()
	}
	if len(p.completed) > 0 {
		v.Completed = append([]highlight.Token(nil), p.completed...)
	}

	if p.err != nil {
		v.Error = labels.ErrorText(p.task, p.err, locale)
		v.ErrorCode = codeOf(p.err)
	}
	return v
}

func segmentView(task nlp.Task, seg highlight.Segment, locale nlp.Locale) SegmentView {
	if !seg.IsAnnotated() {
		return SegmentView{Text: seg.Text}
	}
	l := labels.Lookup(task, seg.Category)
	return SegmentView{
		Text:        seg.Text,
		Annotated:   true,
		Tag:         seg.Category,
		Known:       l.Known,
		Hue:         l.Style.Hue,
		Class:       l.Style.Class,
		Description: l.In(locale),
	}
}

// LegendEntries resolves ls for locale.
func LegendEntries(ls []labels.Label, locale nlp.Locale) []LegendEntry {
	if len(ls) == 0 {
		return nil
	}
	out := make([]LegendEntry, len(ls))
	for i, l := range ls {
		out[i] = LegendEntry{Tag: l.Tag, Hue: l.Style.Hue, Class: l.Style.Class, Description: l.In(locale)}
	}
	return out
}

func codeOf(err error) string { return errors.GetCode(err).String() }
