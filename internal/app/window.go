package app

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"go.aimuz.me/deeplocal/placement"
)

// Window is the subset of a native window the controller drives.
type Window interface {
	Show()
	Hide()
	Focus()
	IsVisible() bool
	IsMinimised() bool
	UnMinimise()
	Size() (width, height int)
	SetPosition(x, y int)
	// Screen returns the monitor the window is on, or the primary one.
	Screen() (placement.Screen, error)
}

// WindowController keeps the main window parked in the bottom-right corner
// of its work area and turns minimise/close into hide.
//
// The controller never holds its lock while calling into the window: native
// calls may synchronously fire events that come back through Handle*.
type WindowController struct {
	win       Window
	requested placement.Size
	margin    float64

	mu         sync.Mutex
	resnap     bool
	onChange   func(visible bool)
	allowClose atomic.Bool
}

// NewWindowController creates a controller for win. requested is the size
// asked for at creation, used until the window reports its own.
func NewWindowController(win Window, requested placement.Size, margin float64) *WindowController {
	if margin < 0 {
		margin = placement.DefaultMargin
	}
	return &WindowController{win: win, requested: requested, margin: margin}
}

// OnVisibilityChange registers fn to run after Show, Hide and shown events.
func (c *WindowController) OnVisibilityChange(fn func(visible bool)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Place moves the window to the bottom-right corner of its work area.
func (c *WindowController) Place() (placement.Point, error) {
	scr, err := c.win.Screen()
	if err != nil {
		return placement.Point{}, err
	}

	w, h := c.win.Size()
	size := placement.ResolveSize(placement.Size{Width: float64(w), Height: float64(h)}, c.requested)
	p := placement.BottomRight(scr, size, c.margin)

	x, y := p.Round()
	c.win.SetPosition(x, y)
	return p, nil
}

func (c *WindowController) place() {
	if _, err := c.Place(); err != nil {
		slog.Warn("place window", "error", err)
	}
}

// ArmResnap re-places the window on the next layout pass that reports a
// real size. Sizes are often still zero right after a show.
func (c *WindowController) ArmResnap() {
	c.mu.Lock()
	c.resnap = true
	c.mu.Unlock()
}

// HandleLayout consumes an armed resnap once the window has a size.
func (c *WindowController) HandleLayout() {
	c.mu.Lock()
	armed := c.resnap
	c.mu.Unlock()
	if !armed {
		return
	}

	if w, h := c.win.Size(); w <= 0 || h <= 0 {
		return
	}

	c.mu.Lock()
	if !c.resnap {
		c.mu.Unlock()
		return
	}
	c.resnap = false
	c.mu.Unlock()

	c.place()
}

// Visible reports whether the window is on screen and not minimised.
func (c *WindowController) Visible() bool {
	return c.win.IsVisible() && !c.win.IsMinimised()
}

// Show places, restores and focuses the window.
func (c *WindowController) Show() {
	c.place()
	c.ArmResnap()

	if !c.win.IsVisible() {
		c.win.Show()
	}
	if c.win.IsMinimised() {
		c.win.UnMinimise()
	}
	c.win.Focus()
	c.notify()
}

// Hide removes the window from the screen.
func (c *WindowController) Hide() {
	c.win.Hide()
	c.notify()
}

// Toggle hides a visible window and shows a hidden one.
func (c *WindowController) Toggle() {
	if c.Visible() {
		c.Hide()
		return
	}
	c.Show()
}

// HandleMinimise hides instead of leaving a minimised window around.
func (c *WindowController) HandleMinimise() {
	c.Hide()
}

// HandleClosing reports whether the close should be cancelled. Until
// AllowClose is called a close only hides the window.
func (c *WindowController) HandleClosing() (cancel bool) {
	if c.allowClose.Load() {
		return false
	}
	c.Hide()
	return true
}

// AllowClose lets the next close request through. Used on exit.
func (c *WindowController) AllowClose() {
	c.allowClose.Store(true)
}

// HandleShown re-places a window that just became visible.
func (c *WindowController) HandleShown() {
	c.place()
	c.ArmResnap()
	c.notify()
}

// HandleDPIChanged re-places the window after a scale change.
func (c *WindowController) HandleDPIChanged() {
	c.place()
}

func (c *WindowController) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(c.Visible())
	}
}
