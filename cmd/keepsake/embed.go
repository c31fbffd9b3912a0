package main

import (
	"embed"
	"io/fs"

	"github.com/keepsakehq/keepsake/internal/server"
)

// The ui directory holds the built web shell; a placeholder page ships so
// the embed always resolves.
//
//go:embed all:ui
var uiDist embed.FS

func init() {
	sub, err := fs.Sub(uiDist, "ui")
	if err != nil {
		return
	}
	server.SetUI(sub)
}
