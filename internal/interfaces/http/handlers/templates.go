package handlers

import (
	"embed"
	"html/template"

	"github.com/turtacn/sabdamanthan/internal/panel"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"tabID":  panel.TabID,
	"isFill": func(t nlp.Task) bool { return t == nlp.TaskFillMask },
}

func parseTemplates() (*template.Template, error) {
	return template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
