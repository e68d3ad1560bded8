package panel

import (
	"sync"
	"time"

	"github.com/turtacn/sabdamanthan/internal/inference"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// Tab identifiers used in URLs.  The fill-mask tab keeps its historical
// "fill-blank" name.
const (
	TabFillBlank = "fill-blank"
	TabNER       = "ner"
	TabPOS       = "pos"
)

// TabID returns the URL identifier of task's tab.
func TabID(task nlp.Task) string {
	if task == nlp.TaskFillMask {
		return TabFillBlank
	}
	return string(task)
}

// Workspace is the state of one browser session: three independent panels,
// the active tab and the UI locale.
type Workspace struct {
	id     string
	panels map[nlp.Task]*Panel

	mu       sync.Mutex
	tab      nlp.Task
	locale   nlp.Locale
	lastSeen time.Time
}

// NewWorkspace builds a workspace whose panels share predictor and opts.
func NewWorkspace(id string, predictor inference.Predictor, opts Options, locale nlp.Locale) *Workspace {
	w := &Workspace{
		id:       id,
		panels:   make(map[nlp.Task]*Panel, len(nlp.Tasks)),
		tab:      nlp.TaskFillMask,
		locale:   locale,
		lastSeen: time.Now(),
	}
	if w.locale == "" {
		w.locale = nlp.LocaleEnglish
	}
	for _, t := range nlp.Tasks {
		w.panels[t] = New(t, predictor, opts)
	}
	return w
}

// ID returns the session ID.
func (w *Workspace) ID() string { return w.id }

// Panel returns the panel for task, or nil for an unknown task.
func (w *Workspace) Panel(task nlp.Task) *Panel { return w.panels[task] }

// Tab returns the active tab.
func (w *Workspace) Tab() nlp.Task {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tab
}

// SetTab activates task.  Unknown tasks are ignored.
func (w *Workspace) SetTab(task nlp.Task) {
	if !task.IsValid() {
		return
	}
	w.mu.Lock()
	w.tab = task
	w.mu.Unlock()
}

// Locale returns the UI locale.
func (w *Workspace) Locale() nlp.Locale {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.locale
}

// SetLocale changes the UI locale.
func (w *Workspace) SetLocale(l nlp.Locale) {
	w.mu.Lock()
	w.locale = l
	w.mu.Unlock()
}

// ToggleLocale switches between English and Nepali and returns the result.
func (w *Workspace) ToggleLocale() nlp.Locale {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.locale = w.locale.Toggle()
	return w.locale
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}
