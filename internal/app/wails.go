package app

import (
	"errors"
	"math"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"go.aimuz.me/deeplocal/placement"
)

var errNoScreen = errors.New("no screen available")

// wailsWindow adapts a Wails window to Window.
type wailsWindow struct {
	app *application.App
	win application.Window
}

func newWailsWindow(app *application.App, win application.Window) *wailsWindow {
	return &wailsWindow{app: app, win: win}
}

func (w *wailsWindow) Show() { w.win.Show() }
func (w *wailsWindow) Hide() { w.win.Hide() }
func (w *wailsWindow) Focus() { w.win.Focus() }
func (w *wailsWindow) IsVisible() bool { return w.win.IsVisible() }
func (w *wailsWindow) IsMinimised() bool { return w.win.IsMinimised() }
func (w *wailsWindow) UnMinimise() { w.win.UnMinimise() }
func (w *wailsWindow) Size() (int, int) { return w.win.Size() }
func (w *wailsWindow) SetPosition(x, y int) { w.win.SetPosition(x, y) }

func (w *wailsWindow) Screen() (placement.Screen, error) {
	scr, err := w.win.GetScreen()
	if err != nil || scr == nil {
		scr = w.app.Screen.GetPrimary()
	}
	if scr == nil {
		if err == nil {
			err = errNoScreen
		}
		return placement.Screen{}, err
	}
	return screenFromWails(scr), nil
}

// screenFromWails prefers the physical work area; when the platform only
// reports DIP it is scaled up so placement always works in pixels. The
// origin ties the screen's pixels to the per-monitor DIP space Wails
// positions windows in.
func screenFromWails(s *application.Screen) placement.Screen {
	scale := placement.NormalizeScale(float64(s.ScaleFactor))

	origin := placement.Origin{
		PhysicalX: s.Bounds.X,
		PhysicalY: s.Bounds.Y,
		X:         float64(s.Bounds.X),
		Y:         float64(s.Bounds.Y),
	}
	if s.PhysicalBounds.Width > 0 && s.PhysicalBounds.Height > 0 {
		origin.PhysicalX = s.PhysicalBounds.X
		origin.PhysicalY = s.PhysicalBounds.Y
	}

	wa := placement.Rect{
		X:      s.PhysicalWorkArea.X,
		Y:      s.PhysicalWorkArea.Y,
		Width:  s.PhysicalWorkArea.Width,
		Height: s.PhysicalWorkArea.Height,
	}
	if wa.Empty() {
		wa = placement.Rect{
			X:      origin.PhysicalX + int(math.Round(float64(s.WorkArea.X-s.Bounds.X)*scale)),
			Y:      origin.PhysicalY + int(math.Round(float64(s.WorkArea.Y-s.Bounds.Y)*scale)),
			Width:  int(math.Round(float64(s.WorkArea.Width) * scale)),
			Height: int(math.Round(float64(s.WorkArea.Height) * scale)),
		}
	}
	return placement.Screen{WorkArea: wa, Scale: scale, Origin: origin}
}

// bindWindowEvents routes native window events to the controller.
func bindWindowEvents(win application.Window, c *WindowController) {
	// Intercept window close: hide instead of destroy so tray can reopen
	win.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		if c.HandleClosing() {
			e.Cancel()
		}
	})
	win.OnWindowEvent(events.Common.WindowMinimise, func(*application.WindowEvent) {
		c.HandleMinimise()
	})
	win.OnWindowEvent(events.Common.WindowShow, func(*application.WindowEvent) {
		c.HandleShown()
	})
	win.OnWindowEvent(events.Common.WindowDPIChanged, func(*application.WindowEvent) {
		c.HandleDPIChanged()
	})
	for _, ev := range []events.WindowEventType{
		events.Common.WindowDidResize,
		events.Common.WindowRuntimeReady,
	} {
		win.OnWindowEvent(ev, func(*application.WindowEvent) {
			c.HandleLayout()
		})
	}
}
