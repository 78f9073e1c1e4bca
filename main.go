package main

import (
	"embed"
	"fmt"
	"os"

	"go.aimuz.me/deeplocal/cmd"
)

//go:embed all:frontend/dist
var assets embed.FS

//go:embed assets/tray.png
var trayIconBytes []byte

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	info := cmd.BuildInfo{Version: version, Commit: commit, Date: date}
	if err := cmd.Execute(info, runGUI); err != nil {
		fmt.Fprintln(os.Stderr, "deeplocal:", err)
		os.Exit(1)
	}
}
