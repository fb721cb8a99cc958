package frontend

import "embed"

// StaticFiles holds the built page served at /
//
//go:embed dist
var StaticFiles embed.FS
