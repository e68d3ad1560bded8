package handlers

import (
	"net/http"

	"github.com/turtacn/sabdamanthan/internal/panel"
)

// session returns the caller's workspace and whether it was just created.
// The session cookie is (re)issued whenever the workspace ID differs from
// the one the browser sent.
func session(w http.ResponseWriter, r *http.Request, store *panel.Store) (*panel.Workspace, bool) {
	var id string
	if c, err := r.Cookie(panel.SessionCookie); err == nil {
		id = c.Value
	}
	_, existed := store.Lookup(id)
	ws := store.Get(id)
	if ws.ID() != id || !existed {
		http.SetCookie(w, &http.Cookie{
			Name:     panel.SessionCookie,
			Value:    ws.ID(),
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ws, !existed
}
