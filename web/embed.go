// Package web embeds the static dashboard for serving from the Go binary.
//
// The web/out/ directory holds a hand-written single-page dashboard
// (index.html, app.js, style.css) that talks to the /api/v1 endpoints
// and streams analysis progress over the /api/v1/ws WebSocket. It is
// embedded at compile time using go:embed, so the newslens binary ships
// self-contained.
//
// Usage in the API server:
//
//	import "github.com/seenimoa/newslens/web"
//	fs := web.DistFS()  // returns io/fs.FS rooted at out/
package web

import (
	"embed"
	"io/fs"
	"log"
)

//go:embed all:out
var dist embed.FS

// DistFS returns a filesystem rooted at the embedded out/ directory.
// This is ready to use with http.FileServerFS or http.FS.
func DistFS() fs.FS {
	sub, err := fs.Sub(dist, "out")
	if err != nil {
		log.Fatalf("web.DistFS: %v", err)
	}
	return sub
}
