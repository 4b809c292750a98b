package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts/*.html templates/*.html
var Content embed.FS

// Engine returns the HTML engine for the embedded templates. Template names
// are their paths without extension, e.g. "templates/home".
func Engine() *html.Engine {
	return html.NewFileSystem(http.FS(Content), ".html")
}
