package panel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sabdamanthan/internal/highlight"
	"github.com/turtacn/sabdamanthan/internal/inference"
	"github.com/turtacn/sabdamanthan/internal/labels"
	"github.com/turtacn/sabdamanthan/internal/nepali"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// stubPredictor returns canned results and records the last input.
type stubPredictor struct {
	mu       sync.Mutex
	fill     *nlp.FillResult
	spans    []nlp.AnnotatedSpan
	err      error
	lastText string
	block    chan struct{}
	started  chan struct{}
}

func (s *stubPredictor) record(ctx context.Context, text string) error {
	s.mu.Lock()
	s.lastText = text
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func (s *stubPredictor) FillMask(ctx context.Context, text string) (*nlp.FillResult, error) {
	if err := s.record(ctx, text); err != nil {
		return nil, err
	}
	return s.fill, nil
}

func (s *stubPredictor) NER(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	if err := s.record(ctx, text); err != nil {
		return nil, err
	}
	return s.spans, nil
}

func (s *stubPredictor) POS(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	return s.NER(ctx, text)
}

func (s *stubPredictor) Ping(context.Context) error { return nil }

func (s *stubPredictor) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastText
}

func TestPanel_NER(t *testing.T) {
	stub := &stubPredictor{spans: []nlp.AnnotatedSpan{
		{Text: "रामले", Category: "B-PER"},
		{Text: "काठमाडौंमा", Category: "B-LOC"},
	}}
	p := New(nlp.TaskNER, stub, Options{})

	require.NoError(t, p.Submit(context.Background(), "  रामले काठमाडौंमा घर किने "))
	assert.Equal(t, "रामले काठमाडौंमा घर किने", stub.last())

	v := p.View(nlp.LocaleEnglish)
	assert.True(t, v.Processed)
	assert.False(t, v.Busy)
	assert.Empty(t, v.Error)
	require.Len(t, v.Segments, 4)
	assert.Equal(t, SegmentView{
		Text: "रामले", Annotated: true, Tag: "B-PER", Known: true,
		Hue: "purple", Class: "bg-purple-200 text-purple-900 border-purple-300",
		Description: "Beginning of Person",
	}, v.Segments[0])
	assert.Equal(t, SegmentView{Text: " "}, v.Segments[1])
	assert.Equal(t, "Beginning of Location", v.Segments[2].Description)
	assert.Equal(t, SegmentView{Text: " घर किने"}, v.Segments[3])

	require.Len(t, v.UsedTags, 2)
	assert.Equal(t, "B-PER", v.UsedTags[0].Tag)
	assert.Len(t, v.Legend, 7)
	assert.Equal(t, "Identify Entities", v.Strings.Submit)

	ne := p.View(nlp.LocaleNepali)
	assert.Equal(t, "व्यक्तिको सुरुवात", ne.Segments[0].Description)
}

func TestPanel_POS_UnknownTagAndSubwordMerge(t *testing.T) {
	stub := &stubPredictor{spans: []nlp.AnnotatedSpan{
		{Text: "म", Category: "PP"},
		{Text: "घर", Category: "NN"},
		{Text: "##मा", Category: "PKO"},
		{Text: "छु", Category: "ZZZ"},
	}}
	p := New(nlp.TaskPOS, stub, Options{ContinuationPrefix: "##"})

	require.NoError(t, p.Submit(context.Background(), "म घरमा छु"))
	v := p.View(nlp.LocaleEnglish)
	assert.Equal(t, []string{"म", " ", "घरमा", " ", "छु"}, texts(v.Segments))
	assert.Equal(t, "NN", v.Segments[2].Tag)

	unknown := v.Segments[4]
	assert.False(t, unknown.Known)
	assert.Equal(t, labels.FallbackStyle.Class, unknown.Class)
	assert.Equal(t, "ZZZ", unknown.Description)
	assert.Zero(t, v.Dropped)
}

// reversedMock is the simulated backend answering in reverse word order.
type reversedMock struct{ *inference.Mock }

func (m reversedMock) NER(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	spans, err := m.Mock.NER(ctx, text)
	for i, j := 0, len(spans)-1; i < j; i, j = i+1, j-1 {
		spans[i], spans[j] = spans[j], spans[i]
	}
	return spans, err
}

func (m reversedMock) Unwrap() inference.Predictor { return m.Mock }

func TestPanel_SimulatedAnnotationsArePlacedByPosition(t *testing.T) {
	const in = "राम पोखरा गए"
	sim := inference.NewSwitch(reversedMock{inference.NewMock()})
	p := New(nlp.TaskNER, sim, Options{})

	require.NoError(t, p.Submit(context.Background(), in))
	v := p.View(nlp.LocaleEnglish)
	assert.Zero(t, v.Dropped)
	assert.Equal(t, []string{"राम", " ", "पोखरा", " ", "गए"}, texts(v.Segments))
	assert.Equal(t, "B-PER", v.Segments[0].Tag)
	assert.Equal(t, "B-LOC", v.Segments[2].Tag)

	// The same reversed spans from a real backend are matched in scan order.
	spans, err := inference.NewMock().NER(context.Background(), in)
	require.NoError(t, err)
	reversed := []nlp.AnnotatedSpan{spans[2], spans[1], spans[0]}
	q := New(nlp.TaskNER, &stubPredictor{spans: reversed}, Options{})
	require.NoError(t, q.Submit(context.Background(), in))
	assert.Equal(t, 2, q.View(nlp.LocaleEnglish).Dropped)
}

func TestPanel_DroppedAnnotationsStayPlain(t *testing.T) {
	stub := &stubPredictor{spans: []nlp.AnnotatedSpan{
		{Text: "पोखरा", Category: "B-LOC"},
		{Text: "राम", Category: "B-PER"},
	}}
	p := New(nlp.TaskNER, stub, Options{})

	require.NoError(t, p.Submit(context.Background(), "राम घर गए"))
	v := p.View(nlp.LocaleEnglish)
	assert.Equal(t, 1, v.Dropped)
	assert.Equal(t, "राम घर गए", joined(v.Segments))
}

func TestPanel_FillMask(t *testing.T) {
	stub := &stubPredictor{fill: &nlp.FillResult{Candidates: []nlp.Candidate{
		{Word: "सानो", Probability: 0.1},
		{Word: "राम्रो", Probability: 0.7},
		{Word: "ठूलो", Probability: 0.2},
	}}}
	p := New(nlp.TaskFillMask, stub, Options{})

	require.NoError(t, p.Submit(context.Background(), "हाम्रो ___ घर"))
	assert.Equal(t, "हाम्रो <mask> घर", stub.last())

	v := p.View(nlp.LocaleEnglish)
	require.Len(t, v.Candidates, 3)
	assert.Equal(t, "राम्रो", v.Candidates[0].Word)
	assert.True(t, v.Candidates[0].Top)
	assert.True(t, v.Candidates[0].Selected)
	assert.Equal(t, "70.0%", v.Candidates[0].Percent)
	assert.Equal(t, "राम्रो", v.Selected)
	assert.Equal(t, []highlight.Token{{Text: "हाम्रो"}, {Text: "राम्रो", Blank: true}, {Text: "घर"}}, v.Completed)
	assert.Empty(t, v.Legend)

	require.NoError(t, p.Select("सानो"))
	v = p.View(nlp.LocaleEnglish)
	assert.Equal(t, "सानो", v.Selected)
	assert.True(t, v.Candidates[0].Top)
	assert.False(t, v.Candidates[0].Selected)
	assert.True(t, v.Candidates[2].Selected)
	assert.Equal(t, "हाम्रो सानो घर", highlight.JoinTokens(v.Completed))

	err := p.Select("नभएको")
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, "सानो", p.View(nlp.LocaleEnglish).Selected)
}

func TestPanel_FillMask_SeveralBlanks(t *testing.T) {
	stub := &stubPredictor{fill: &nlp.FillResult{Completed: "राम्रो घर राम्रो छ"}}
	p := New(nlp.TaskFillMask, stub, Options{MaskToken: "[MASK]"})

	require.NoError(t, p.Submit(context.Background(), "_ घर _ छ"))
	assert.Equal(t, "[MASK] घर [MASK] छ", stub.last())

	v := p.View(nlp.LocaleEnglish)
	assert.Empty(t, v.Candidates)
	assert.Equal(t, []highlight.Token{
		{Text: "राम्रो", Blank: true}, {Text: "घर"}, {Text: "राम्रो", Blank: true}, {Text: "छ"},
	}, v.Completed)
	assert.True(t, v.HasResult())
}

func TestPanel_SelectOnAnnotationPanel(t *testing.T) {
	p := New(nlp.TaskNER, &stubPredictor{}, Options{})
	assert.True(t, errors.IsCode(p.Select("x"), errors.CodeInvalidParam))
}

func TestPanel_ValidationClearsPreviousResult(t *testing.T) {
	stub := &stubPredictor{spans: []nlp.AnnotatedSpan{{Text: "राम", Category: "B-PER"}}}
	p := New(nlp.TaskNER, stub, Options{})
	require.NoError(t, p.Submit(context.Background(), "राम"))
	require.True(t, p.View(nlp.LocaleEnglish).HasResult())

	err := p.Submit(context.Background(), "hello world")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	v := p.View(nlp.LocaleEnglish)
	assert.False(t, v.HasResult())
	assert.False(t, v.Processed)
	assert.Equal(t, "hello world", v.Input)
	assert.Equal(t, labels.Messages(nlp.LocaleEnglish).Message(nepali.KeyNotNepali), v.Error)
	assert.Equal(t, string(errors.ErrCodeValidation), v.ErrorCode)
}

func TestPanel_ValidationNeverCallsPredictor(t *testing.T) {
	stub := &stubPredictor{fill: &nlp.FillResult{}}
	p := New(nlp.TaskFillMask, stub, Options{})

	for _, in := range []string{"", "   ", "हाम्रो घर", "my _ house"} {
		assert.True(t, errors.IsValidation(p.Submit(context.Background(), in)), in)
	}
	assert.Empty(t, stub.last())

	p.Submit(context.Background(), "")
	assert.Equal(t, "Please enter a sentence", p.View(nlp.LocaleEnglish).Error)
}

func TestPanel_TransportErrorIsLocalized(t *testing.T) {
	stub := &stubPredictor{err: errors.NewTransport(500, nil)}

	ner := New(nlp.TaskNER, stub, Options{})
	require.Error(t, ner.Submit(context.Background(), "राम"))
	assert.Equal(t, "Error: HTTP error! Status: 500", ner.View(nlp.LocaleEnglish).Error)

	fill := New(nlp.TaskFillMask, stub, Options{})
	require.Error(t, fill.Submit(context.Background(), "राम _"))
	assert.Equal(t, "Error fetching suggestions", fill.View(nlp.LocaleEnglish).Error)

	// The panel stays usable.
	stub.err = nil
	stub.spans = []nlp.AnnotatedSpan{{Text: "राम", Category: "B-PER"}}
	require.NoError(t, ner.Submit(context.Background(), "राम"))
	assert.Empty(t, ner.View(nlp.LocaleEnglish).Error)
}

func TestPanel_BusyRejectsSecondSubmit(t *testing.T) {
	stub := &stubPredictor{
		spans:   []nlp.AnnotatedSpan{{Text: "राम", Category: "B-PER"}},
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	p := New(nlp.TaskNER, stub, Options{})

	done := make(chan error, 1)
	go func() { done <- p.Submit(context.Background(), "राम") }()
	<-stub.started

	assert.True(t, p.Busy())
	assert.True(t, p.View(nlp.LocaleEnglish).Busy)

	err := p.Submit(context.Background(), "सीता")
	assert.ErrorIs(t, err, ErrBusy)
	assert.True(t, errors.IsBusy(err))

	close(stub.block)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first submission did not finish")
	}

	assert.False(t, p.Busy())
	v := p.View(nlp.LocaleEnglish)
	assert.Equal(t, "राम", v.Input)
	assert.Equal(t, "B-PER", v.Segments[0].Tag)
}

func TestPanel_PanelsAreIndependent(t *testing.T) {
	stub := &stubPredictor{block: make(chan struct{}), started: make(chan struct{}, 1), fill: &nlp.FillResult{}}
	w := NewWorkspace("s", stub, Options{}, "")

	go func() { _ = w.Panel(nlp.TaskNER).Submit(context.Background(), "राम") }()
	<-stub.started
	defer close(stub.block)

	assert.True(t, w.Panel(nlp.TaskNER).Busy())
	assert.False(t, w.Panel(nlp.TaskPOS).Busy())
	assert.False(t, w.Panel(nlp.TaskFillMask).Busy())
}

func TestPanel_WithMockPredictor(t *testing.T) {
	p := New(nlp.TaskFillMask, inference.NewMock(), Options{})
	require.NoError(t, p.Submit(context.Background(), "यो _ घर हो"))
	v := p.View(nlp.LocaleNepali)
	assert.Len(t, v.Candidates, 5)
	assert.Equal(t, "यो राम्रो घर हो", highlight.JoinTokens(v.Completed))
}

func TestPanel_Reset(t *testing.T) {
	p := New(nlp.TaskNER, &stubPredictor{}, Options{})
	_ = p.Submit(context.Background(), "abc")
	p.Reset()
	v := p.View(nlp.LocaleEnglish)
	assert.Empty(t, v.Input)
	assert.Empty(t, v.Error)
}

func texts(segs []SegmentView) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}

func joined(segs []SegmentView) string {
	s := ""
	for _, seg := range segs {
		s += seg.Text
	}
	return s
}
