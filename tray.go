package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.aimuz.me/deeplocal/internal/app"
)

// User-supplied icons next to the executable, in order of preference.
var trayIconFiles = []string{
	filepath.Join("Assets", "DeepLocal_UserIcon_Framed.ico"),
	filepath.Join("Assets", "deeplocal.ico"),
}

type tray struct {
	menu *application.Menu
	open *application.MenuItem
	hide *application.MenuItem
}

func newTray(wailsApp *application.App, svc *app.Service) *tray {
	systemTray := wailsApp.SystemTray.New()
	systemTray.SetIcon(loadTrayIcon(executableDir(), trayIconBytes))
	systemTray.SetTooltip(windowTitle)

	t := &tray{menu: wailsApp.NewMenu()}
	t.open = t.menu.Add("Open").OnClick(func(*application.Context) {
		svc.ShowWindow()
	})

	label := "Translate from clipboard"
	if hk := svc.HotkeyLabel(); hk != "" {
		label += " (" + hk + ")"
	}
	t.menu.Add(label).OnClick(func(*application.Context) {
		go svc.TranslateClipboard()
	})

	t.hide = t.menu.Add("Hide window").OnClick(func(*application.Context) {
		svc.HideWindow()
	})

	t.menu.AddSeparator()
	t.menu.Add("Exit").OnClick(func(*application.Context) {
		svc.Window().AllowClose()
		wailsApp.Quit()
	})

	systemTray.SetMenu(t.menu)
	systemTray.OnDoubleClick(svc.ToggleWindow)

	t.updateMenu(svc.Window().Visible())
	return t
}

// updateMenu enables Open only while hidden and Hide only while visible.
func (t *tray) updateMenu(visible bool) {
	t.open.SetEnabled(!visible)
	t.hide.SetEnabled(visible)
	t.menu.Update()
}

// loadTrayIcon returns the first user icon found in dir, else fallback.
func loadTrayIcon(dir string, fallback []byte) []byte {
	if dir == "" {
		return fallback
	}
	for _, name := range trayIconFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil || len(data) == 0 {
			continue
		}
		slog.Debug("using tray icon", "path", path)
		return data
	}
	return fallback
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
