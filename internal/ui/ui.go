// Package ui embeds the static viewer assets served by the API server.
package ui

import "embed"

// StaticFS holds the viewer page. The actual WebGL renderer applies the
// streamed frame values; this package only ships the files.
//
//go:embed static
var StaticFS embed.FS
