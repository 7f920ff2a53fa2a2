package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// templateFS holds the page templates; they are never served as files.
//
//go:embed templates
var templateFS embed.FS

// pageTemplate is the name of the dashboard template inside templateFS.
const pageTemplate = "templates/dashboard.html"

// FS returns an http.FileSystem for the embedded assets.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Unreachable while the embed directive names static/.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
