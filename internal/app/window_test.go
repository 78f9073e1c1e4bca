package app

import (
	"errors"
	"sync"
	"testing"

	"go.aimuz.me/deeplocal/placement"
)

type fakeWindow struct {
	mu        sync.Mutex
	visible   bool
	minimised bool
	w, h      int
	x, y      int
	moves     int
	focused   int
	screen    placement.Screen
	screenErr error
}

func (f *fakeWindow) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = true
}

func (f *fakeWindow) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = false
}

func (f *fakeWindow) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused++
}

func (f *fakeWindow) UnMinimise() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minimised = false
}

func (f *fakeWindow) IsVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

func (f *fakeWindow) IsMinimised() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.minimised
}

func (f *fakeWindow) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w, f.h
}

func (f *fakeWindow) SetPosition(x, y int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.x, f.y = x, y
	f.moves++
}

func (f *fakeWindow) Screen() (placement.Screen, error) {
	return f.screen, f.screenErr
}

func (f *fakeWindow) position() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.x, f.y, f.moves
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{
		w: 900, h: 600,
		screen: placement.Screen{
			WorkArea: placement.Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
			Scale:    1,
		},
	}
}

func TestWindowController_Place(t *testing.T) {
	win := newFakeWindow()
	c := NewWindowController(win, placement.Size{Width: 900, Height: 600}, 16)

	p, err := c.Place()
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if p.X != 1004 || p.Y != 424 {
		t.Errorf("Place() = %+v, want {1004 424}", p)
	}
	if x, y, _ := win.position(); x != 1004 || y != 424 {
		t.Errorf("window at %d,%d", x, y)
	}
}

func TestWindowController_PlaceUsesRequestedSizeUntilReported(t *testing.T) {
	win := newFakeWindow()
	win.w, win.h = 0, 0
	c := NewWindowController(win, placement.Size{Width: 400, Height: 300}, 10)

	p, err := c.Place()
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if p.X != 1510 || p.Y != 730 {
		t.Errorf("Place() = %+v, want {1510 730}", p)
	}
}

func TestWindowController_PlaceScreenError(t *testing.T) {
	win := newFakeWindow()
	win.screenErr = errors.New("no screen")
	c := NewWindowController(win, placement.Size{}, 16)

	if _, err := c.Place(); err == nil {
		t.Error("Place() should fail without a screen")
	}
	if _, _, moves := win.position(); moves != 0 {
		t.Errorf("window moved %d times", moves)
	}
}

func TestWindowController_Resnap(t *testing.T) {
	win := newFakeWindow()
	c := NewWindowController(win, placement.Size{Width: 900, Height: 600}, 16)

	c.HandleLayout()
	if _, _, moves := win.position(); moves != 0 {
		t.Fatalf("unarmed layout moved the window")
	}

	c.ArmResnap()
	win.w, win.h = 0, 0
	c.HandleLayout()
	if _, _, moves := win.position(); moves != 0 {
		t.Fatalf("zero-size layout consumed the resnap")
	}

	win.w, win.h = 800, 500
	c.HandleLayout()
	x, y, moves := win.position()
	if moves != 1 || x != 1104 || y != 524 {
		t.Errorf("after layout: at %d,%d moves=%d, want 1104,524 moves=1", x, y, moves)
	}

	c.HandleLayout()
	if _, _, moves := win.position(); moves != 1 {
		t.Errorf("resnap fired twice")
	}
}

func TestWindowController_ShowHideToggle(t *testing.T) {
	win := newFakeWindow()
	win.minimised = true
	c := NewWindowController(win, placement.Size{Width: 900, Height: 600}, 16)

	var seen []bool
	c.OnVisibilityChange(func(v bool) { seen = append(seen, v) })

	c.Show()
	if !win.IsVisible() || win.IsMinimised() || win.focused != 1 {
		t.Fatalf("after Show: visible=%v minimised=%v focused=%d", win.IsVisible(), win.IsMinimised(), win.focused)
	}
	if !c.Visible() {
		t.Error("Visible() = false after Show")
	}

	c.Toggle()
	if win.IsVisible() {
		t.Error("Toggle() did not hide a visible window")
	}

	c.Toggle()
	if !win.IsVisible() {
		t.Error("Toggle() did not show a hidden window")
	}

	want := []bool{true, false, true}
	if len(seen) != len(want) {
		t.Fatalf("visibility callbacks = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("callback %d = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestWindowController_MinimisedCountsAsHidden(t *testing.T) {
	win := newFakeWindow()
	win.visible, win.minimised = true, true
	c := NewWindowController(win, placement.Size{}, 16)

	if c.Visible() {
		t.Error("minimised window reported visible")
	}
	c.Toggle()
	if win.IsMinimised() || !win.IsVisible() {
		t.Error("Toggle() should restore a minimised window")
	}
}

func TestWindowController_Closing(t *testing.T) {
	win := newFakeWindow()
	win.visible = true
	c := NewWindowController(win, placement.Size{}, 16)

	if !c.HandleClosing() {
		t.Error("close should be cancelled")
	}
	if win.IsVisible() {
		t.Error("cancelled close should hide the window")
	}

	c.AllowClose()
	if c.HandleClosing() {
		t.Error("close should pass after AllowClose")
	}
}

func TestWindowController_MinimiseHides(t *testing.T) {
	win := newFakeWindow()
	win.visible = true
	c := NewWindowController(win, placement.Size{}, 16)

	c.HandleMinimise()
	if win.IsVisible() {
		t.Error("minimise should hide")
	}
}

func TestWindowController_ShownAndDPI(t *testing.T) {
	win := newFakeWindow()
	c := NewWindowController(win, placement.Size{Width: 900, Height: 600}, 16)

	c.HandleShown()
	if _, _, moves := win.position(); moves != 1 {
		t.Fatalf("shown moves = %d, want 1", moves)
	}

	// Shown arms a resnap.
	c.HandleLayout()
	if _, _, moves := win.position(); moves != 2 {
		t.Fatalf("layout after shown moves = %d, want 2", moves)
	}

	win.screen.Scale = 1.5
	c.HandleDPIChanged()
	x, y, moves := win.position()
	if moves != 3 {
		t.Fatalf("dpi moves = %d, want 3", moves)
	}
	// 900x600 DIP at 1.5 is 1350x900 px; corner at 1920-24-1350, 1040-24-900.
	if x != 364 || y != 77 {
		t.Errorf("after DPI change at %d,%d, want 364,77", x, y)
	}
}
