package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/gometeo/tripview/internal/model"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Page - данные страницы поиска
type Page struct {
	Query  string
	Prompt string
	State  model.UIState
	View   *View
}

func (p Page) Loading() bool { return p.State == model.Loading }
func (p Page) Failed() bool  { return p.State == model.Error }

// PageFrom собирает страницу по последней отрисовке snap.
func PageFrom(query string, snap *Snapshot) Page {
	return Page{
		Query: query,
		State: snap.State(),
		View:  snap.View(),
	}
}

func WritePage(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}
