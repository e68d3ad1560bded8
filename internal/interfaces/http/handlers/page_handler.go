package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"

	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/internal/labels"
	"github.com/turtacn/sabdamanthan/internal/panel"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// PageHandler serves the server-rendered demo page.  Every form posts back
// and is answered with a 303 to the page, so a reload never resubmits.
type PageHandler struct {
	store  *panel.Store
	logger logging.Logger
	tmpl   *template.Template
}

// NewPageHandler parses the embedded templates.
func NewPageHandler(store *panel.Store, logger logging.Logger) (*PageHandler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "parse page templates")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PageHandler{store: store, logger: logger, tmpl: tmpl}, nil
}

type tabLink struct {
	ID     string
	Title  string
	Short  string
	Active bool
}

type pageData struct {
	S      labels.Strings
	Locale nlp.Locale
	Other  nlp.Locale
	Tabs   []tabLink
	Panel  panel.View
}

// Index handles GET /.  Query tab selects the active tab and lang the
// locale.  A new session starts in the locale negotiated from
// Accept-Language.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ws, created := session(w, r, h.store)
	q := r.URL.Query()

	if lang := q.Get("lang"); lang != "" {
		ws.SetLocale(nlp.ParseLocale(lang))
	} else if created {
		ws.SetLocale(labels.NegotiateLocale(r.Header.Get("Accept-Language"), ""))
	}
	if tab := q.Get("tab"); tab != "" {
		if task, err := nlp.ParseTask(tab); err == nil {
			ws.SetTab(task)
		}
	}

	locale := ws.Locale()
	active := ws.Tab()
	s := labels.Messages(locale)
	data := pageData{
		S:      s,
		Locale: locale,
		Other:  locale.Toggle(),
		Panel:  ws.Panel(active).View(locale),
	}
	for _, t := range nlp.Tasks {
		ts := s.Tab(t)
		data.Tabs = append(data.Tabs, tabLink{ID: panel.TabID(t), Title: ts.Title, Short: ts.Short, Active: t == active})
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.logger.Error("render page failed", logging.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// Submit handles POST /panels/{task}.  Validation and inference failures
// are kept on the panel and shown by the next render.
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	task, err := taskParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ws, _ := session(w, r, h.store)
	ws.SetTab(task)

	if err := ws.Panel(task).Submit(r.Context(), r.PostFormValue("text")); err != nil {
		h.logger.Debug("panel submission failed",
			logging.Task(string(task)),
			logging.String("code", errors.GetCode(err).String()),
			logging.Err(err))
	}
	redirectToTab(w, r, task)
}

// Select handles POST /panels/fill-mask/select with form value word.
func (h *PageHandler) Select(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ws, _ := session(w, r, h.store)
	ws.SetTab(nlp.TaskFillMask)
	if err := ws.Panel(nlp.TaskFillMask).Select(r.PostFormValue("word")); err != nil {
		h.logger.Debug("candidate selection rejected", logging.Err(err))
	}
	redirectToTab(w, r, nlp.TaskFillMask)
}

// Lang handles POST /lang.  Form value lang sets the locale; without it the
// locale is toggled.  Form value tab, when valid, is kept active.
func (h *PageHandler) Lang(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ws, _ := session(w, r, h.store)
	if lang := r.PostFormValue("lang"); lang != "" {
		ws.SetLocale(nlp.ParseLocale(lang))
	} else {
		ws.ToggleLocale()
	}
	if task, err := nlp.ParseTask(r.PostFormValue("tab")); err == nil {
		ws.SetTab(task)
	}
	redirectToTab(w, r, ws.Tab())
}

func redirectToTab(w http.ResponseWriter, r *http.Request, task nlp.Task) {
	http.Redirect(w, r, "/?tab="+url.QueryEscape(panel.TabID(task)), http.StatusSeeOther)
}
