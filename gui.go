package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"go.aimuz.me/deeplocal/config"
	"go.aimuz.me/deeplocal/internal/app"
	"go.aimuz.me/deeplocal/singleinstance"
)

const windowTitle = "DeepLocal – Offline Translator"

// runGUI starts the tray application and blocks until Exit.
func runGUI(cfg *config.Config) error {
	slog.Info("starting app", "version", version, "commit", commit, "date", date)

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	lock, err := singleinstance.Acquire(singleinstance.Name, dir)
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		slog.Info("another instance is running, exiting")
		return nil
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer lock.Release()

	appService := app.New(version)

	wailsApp := application.New(application.Options{
		Name:        "DeepLocal",
		Description: "Offline translator powered by a local Ollama model",
		Services: []application.Service{
			application.NewService(appService),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			// Don't quit when all windows are closed (we have a system tray)
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	mainWindow := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:            "main",
		Title:           windowTitle,
		Width:           cfg.Window.Width,
		Height:          cfg.Window.Height,
		URL:             "/",
		DevToolsEnabled: version == "dev",
	})

	appService.Init(wailsApp, mainWindow, cfg)

	tray := newTray(wailsApp, appService)
	appService.Window().OnVisibilityChange(tray.updateMenu)

	wailsApp.Event.OnApplicationEvent(events.Common.ApplicationStarted, func(*application.ApplicationEvent) {
		appService.ShowWindow()
	})

	err = wailsApp.Run()
	appService.Shutdown()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	slog.Info("app exited")
	return nil
}
