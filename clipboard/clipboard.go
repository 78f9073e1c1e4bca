// Package clipboard reads and writes plain text on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/wailsapp/wails/v3/pkg/application"
)

// ErrUnavailable is returned when no clipboard backend is usable.
var ErrUnavailable = errors.New("clipboard unavailable")

var clipboardLock sync.Mutex

// GetText returns the clipboard text. The Wails clipboard is used while an
// app is running; headless callers pass nil and go straight to the system
// tools behind atotto/clipboard.
func GetText(app *application.App) (string, error) {
	clipboardLock.Lock()
	defer clipboardLock.Unlock()

	if app != nil {
		if text, ok := app.Clipboard.Text(); ok {
			return text, nil
		}
	}
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

// SetText replaces the clipboard contents with text.
func SetText(app *application.App, text string) error {
	clipboardLock.Lock()
	defer clipboardLock.Unlock()

	if app != nil && app.Clipboard.SetText(text) {
		return nil
	}
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Board binds GetText/SetText to one app so callers can depend on a small
// interface instead of the Wails application.
type Board struct {
	App *application.App
}

// Text implements the reader side.
func (b Board) Text() (string, error) { return GetText(b.App) }

// SetText implements the writer side.
func (b Board) SetText(text string) error { return SetText(b.App, text) }
