package panel

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sabdamanthan/internal/inference"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(inference.NewMock(), Options{}, ttl, nlp.LocaleEnglish)
	s.now = clock.now
	return s, clock
}

func TestStore_GetCreatesAndReuses(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	w := s.Get("")
	_, err := uuid.Parse(w.ID())
	require.NoError(t, err)
	assert.Same(t, w, s.Get(w.ID()))
	assert.Equal(t, 1, s.Len())

	other := s.Get("not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", other.ID())
	assert.Equal(t, 2, s.Len())

	_, ok := s.Lookup("missing")
	assert.False(t, ok)
}

func TestStore_WorkspaceDefaults(t *testing.T) {
	s := NewStore(inference.NewMock(), Options{}, time.Minute, nlp.LocaleNepali)
	w := s.Get("")
	assert.Equal(t, nlp.TaskFillMask, w.Tab())
	assert.Equal(t, TabFillBlank, TabID(w.Tab()))
	assert.Equal(t, nlp.LocaleNepali, w.Locale())

	w.SetTab(nlp.TaskPOS)
	w.SetTab(nlp.Task("bogus"))
	assert.Equal(t, nlp.TaskPOS, w.Tab())
	assert.Equal(t, nlp.LocaleEnglish, w.ToggleLocale())

	for _, task := range nlp.Tasks {
		require.NotNil(t, w.Panel(task))
		assert.Equal(t, task, w.Panel(task).Task())
	}
	assert.Nil(t, w.Panel(nlp.Task("bogus")))
}

func TestStore_EvictsIdleSessions(t *testing.T) {
	s, clock := newTestStore(10 * time.Minute)

	stale := s.Get("")
	clock.advance(8 * time.Minute)
	fresh := s.Get("")
	clock.advance(5 * time.Minute)

	assert.Equal(t, 1, s.Evict())
	_, ok := s.Lookup(stale.ID())
	assert.False(t, ok)
	_, ok = s.Lookup(fresh.ID())
	assert.True(t, ok)
}

func TestStore_KeepsBusySessions(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	w := s.Get("")
	w.Panel(nlp.TaskNER).busy.Store(true)
	clock.advance(time.Hour)

	assert.Zero(t, s.Evict())
	w.Panel(nlp.TaskNER).busy.Store(false)
	assert.Equal(t, 1, s.Evict())
}

func TestStore_RunStopsOnCancel(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
