// Package app provides the core application service for Wails bindings.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/skratchdot/open-golang/open"
	"github.com/wailsapp/wails/v3/pkg/application"

	"go.aimuz.me/deeplocal/cache"
	"go.aimuz.me/deeplocal/clipboard"
	"go.aimuz.me/deeplocal/config"
	"go.aimuz.me/deeplocal/hotkey"
	"go.aimuz.me/deeplocal/internal/types"
	"go.aimuz.me/deeplocal/langdetect"
	"go.aimuz.me/deeplocal/llm"
	"go.aimuz.me/deeplocal/placement"
)

// AboutURL is opened by the About button.
const AboutURL = "https://github.com/ShinRalexis"

// Status lines shown under the text boxes.
const (
	StatusReady             = "Ready."
	StatusCleared           = "Cleared."
	StatusCopied            = "Translation copied to clipboard."
	StatusUnsupportedSource = "Unsupported source language."
	StatusOpeningAbout      = "Opening GitHub…"

	// UnsupportedText replaces the translation when detection fails.
	UnsupportedText = "Unsupported language."
)

const listModelsTimeout = 10 * time.Second

// Clipboard reads and writes plain text.
type Clipboard interface {
	Text() (string, error)
	SetText(text string) error
}

// Service provides application functionality bound to Wails.
// This struct focuses on orchestration; business logic lives in sub-components.
type Service struct {
	cfg    *config.Config
	cache  *cache.Cache
	hotkey *hotkey.Manager
	http   *http.Client

	// UI references - set via Init
	app    *application.App
	window *WindowController

	clip         Clipboard
	emitFn       func(name string, data any)
	openURL      func(url string) error
	newCompleter func(model string) llm.Completer

	translator *Translator
	detector   *Detector

	mu       sync.Mutex
	sel      Selection
	model    string
	models   []string
	status   string
	inflight inflight

	// Version info (set by caller)
	version string
}

// inflight is the translation currently allowed to publish results.
type inflight struct {
	id     string
	cancel context.CancelFunc
}

// New creates a new Service. Call Init() after Wails app is created.
func New(version string) *Service {
	return &Service{
		version: version,
		openURL: open.Run,
	}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init wires the service to the running app and its main window.
// Must be called after Wails application is created.
func (s *Service) Init(app *application.App, window application.Window, cfg *config.Config) {
	s.app = app
	s.clip = clipboard.Board{App: app}
	s.emitFn = func(name string, data any) { app.Event.Emit(name, data) }

	s.window = NewWindowController(
		newWailsWindow(app, window),
		placement.Size{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)},
		cfg.Window.Margin,
	)
	bindWindowEvents(window, s.window)

	if cfg.Cache.Enabled {
		s.setupCache()
	}
	s.configure(cfg)
	s.setupHotkey()
}

// configure derives all runtime state from cfg. Collaborators already set
// on the service are kept.
func (s *Service) configure(cfg *config.Config) {
	s.cfg = cfg
	s.http = llm.NewHTTPClient(time.Duration(cfg.Ollama.TimeoutSeconds)*time.Second, cfg.Ollama.Retries)
	if s.newCompleter == nil {
		s.newCompleter = s.completerFor
	}

	var local *langdetect.Detector
	if cfg.LocalDetection {
		local = langdetect.NewDetector(0)
	}
	s.detector = NewDetector(local)
	s.translator = NewTranslator(s.cache, time.Duration(cfg.Cache.TTLHours)*time.Hour)

	s.mu.Lock()
	s.sel = NewSelection(cfg.SourceLang, cfg.TargetLang, cfg.LastExplicitSource)
	s.model = cfg.Model
	s.models = config.MergeModels(cfg.Models, []string{cfg.Model})
	s.status = StatusReady
	s.mu.Unlock()
}

// Shutdown cleans up resources.
func (s *Service) Shutdown() {
	if s.hotkey != nil {
		s.hotkey.Stop()
	}

	s.mu.Lock()
	if s.inflight.cancel != nil {
		s.inflight.cancel()
	}
	s.inflight = inflight{}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("close cache", "error", err)
		}
	}
}

// Window returns the main window controller, nil before Init.
func (s *Service) Window() *WindowController {
	return s.window
}

func (s *Service) setupCache() {
	dir, err := config.Dir()
	if err != nil {
		slog.Error("get config dir for cache", "error", err)
		return
	}

	cachePath := filepath.Join(dir, "cache")
	c, err := cache.New(cachePath)
	if err != nil {
		slog.Error("init cache", "error", err)
		return
	}
	s.cache = c
	slog.Info("cache initialized", "path", cachePath)
}

func (s *Service) setupHotkey() {
	s.hotkey = hotkey.NewManager()

	bind := func(combo string, fn func()) {
		if combo == "" {
			return
		}
		if err := s.hotkey.Bind(combo, fn); err != nil {
			slog.Error("bind hotkey", "hotkey", combo, "error", err)
		}
	}
	bind(s.cfg.Hotkeys.TranslateClipboard, s.TranslateClipboard)
	bind(s.cfg.Hotkeys.ToggleWindow, s.ToggleWindow)

	if len(s.hotkey.Bindings()) == 0 {
		slog.Info("global hotkeys disabled")
		return
	}
	if err := s.hotkey.Start(); err != nil {
		slog.Error("start hotkey", "error", err)
	}
}

// HotkeyLabel returns the translate-clipboard shortcut for display, or ""
// when none is bound.
func (s *Service) HotkeyLabel() string {
	b, err := hotkey.ParseBinding(s.cfg.Hotkeys.TranslateClipboard)
	if err != nil {
		return ""
	}
	return b.String()
}

func (s *Service) completerFor(model string) llm.Completer {
	return llm.NewCompleter(llm.Options{
		API:        s.cfg.Ollama.API,
		Host:       s.cfg.Ollama.Host,
		Model:      model,
		APIKey:     s.cfg.Ollama.APIKey,
		HTTPClient: s.http,
	})
}

// emit is a safe wrapper around app.Event.Emit
func (s *Service) emit(name string, data any) {
	if s.emitFn != nil {
		s.emitFn(name, data)
	}
}

func (s *Service) setStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()

	slog.Debug("status", "message", msg)
	s.emit(EventStatus, msg)
}

func (s *Service) emitState() {
	s.emit(EventState, s.GetState())
}

// persistSelection writes the language selection back to the config
// file. Callers hold s.mu.
func (s *Service) persistSelection() {
	sel := s.sel
	s.save(func(c *config.Config) {
		c.SourceLang = string(sel.Source)
		c.TargetLang = string(sel.Target)
		c.LastExplicitSource = string(sel.LastExplicit)
	})
}

// persistModel writes the chosen model back to the config file. Callers
// hold s.mu.
func (s *Service) persistModel() {
	model := s.model
	s.save(func(c *config.Config) {
		c.Model = model
		c.Models = config.MergeModels(c.Models, []string{model})
	})
}

func (s *Service) save(fn func(*config.Config)) {
	if err := s.cfg.Update(fn); err != nil {
		slog.Warn("save config", "error", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// State & Selection
// ─────────────────────────────────────────────────────────────────────────────

// GetState returns the current selections for the frontend.
func (s *Service) GetState() types.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return types.UIState{
		SourceLang:  string(s.sel.Source),
		TargetLang:  string(s.sel.Target),
		SourceRTL:   s.sel.SourceRTL(),
		TargetRTL:   s.sel.TargetRTL(),
		Model:       s.model,
		Models:      append([]string(nil), s.models...),
		Languages:   langdetect.Names(),
		Busy:        s.inflight.id != "",
		StatusModel: s.statusModel(),
	}
}

// GetStatus returns the last status line.
func (s *Service) GetStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Service) statusModel() string {
	return fmt.Sprintf("Model: %s  |  Ollama: %s", s.model, s.cfg.Ollama.Host)
}

// SetSourceLang selects the source language, "Auto" included.
func (s *Service) SetSourceLang(name string) (types.UIState, error) {
	s.mu.Lock()
	err := s.sel.SetSource(name)
	if err == nil {
		s.persistSelection()
	}
	s.mu.Unlock()
	if err != nil {
		return s.GetState(), err
	}

	s.emitState()
	return s.GetState(), nil
}

// SetTargetLang selects the target language.
func (s *Service) SetTargetLang(name string) (types.UIState, error) {
	s.mu.Lock()
	err := s.sel.SetTarget(name)
	if err == nil {
		s.persistSelection()
	}
	s.mu.Unlock()
	if err != nil {
		return s.GetState(), err
	}

	s.emitState()
	return s.GetState(), nil
}

// SetModel switches the model used for detection and translation.
func (s *Service) SetModel(name string) (types.UIState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.GetState(), errors.New("model name is empty")
	}

	s.mu.Lock()
	s.model = name
	s.models = config.MergeModels(s.models, []string{name})
	s.persistModel()
	s.mu.Unlock()

	slog.Info("model selected", "model", name)
	s.emitState()
	return s.GetState(), nil
}

// Swap exchanges the languages and the two texts.
func (s *Service) Swap(sourceText, targetText string) types.SwapResult {
	s.mu.Lock()
	s.sel.Swap()
	src, dst := s.sel.Source, s.sel.Target
	s.persistSelection()
	s.mu.Unlock()

	s.setStatus(fmt.Sprintf("Swapped → Source: %s | Target: %s", src, dst))
	s.emitState()

	return types.SwapResult{
		SourceText: targetText,
		TargetText: sourceText,
		State:      s.GetState(),
	}
}

// ListModels returns the configured models merged with the ones installed
// on the server. The configured list is returned alone when the server is
// unreachable.
func (s *Service) ListModels() []string {
	ctx, cancel := context.WithTimeout(context.Background(), listModelsTimeout)
	defer cancel()

	installed, err := llm.ListModels(ctx, nil, s.cfg.Ollama.Host)
	if err != nil {
		slog.Warn("list models", "host", s.cfg.Ollama.Host, "error", err)
	}

	s.mu.Lock()
	s.models = config.MergeModels(s.models, installed)
	models := append([]string(nil), s.models...)
	s.mu.Unlock()

	s.emitState()
	return models
}

// ─────────────────────────────────────────────────────────────────────────────
// Translation
// ─────────────────────────────────────────────────────────────────────────────

// Translate detects the source when needed and translates text into the
// selected target. Progress and errors are also reported as status events.
func (s *Service) Translate(text string) (types.TranslateResult, error) {
	return s.translate(context.Background(), text)
}

func (s *Service) translate(parent context.Context, text string) (types.TranslateResult, error) {
	if strings.TrimSpace(text) == "" {
		return types.TranslateResult{}, ErrEmptyInput
	}

	ctx, id := s.begin(parent)
	defer s.end(id)

	s.mu.Lock()
	source, model := s.sel.Source, s.model
	s.mu.Unlock()
	completer := s.newCompleter(model)

	if source.IsAuto() {
		res := s.detector.Detect(ctx, completer, text)
		if !s.current(id) {
			return types.TranslateResult{}, ErrSuperseded
		}
		if res.Name == string(langdetect.Unsupported) {
			s.emit(EventTargetText, UnsupportedText)
			s.setStatus(StatusUnsupportedSource)
			return types.TranslateResult{ID: id, Text: UnsupportedText}, ErrUnsupportedLanguage
		}

		s.mu.Lock()
		if err := s.sel.SetSource(res.Name); err != nil {
			s.mu.Unlock()
			slog.Warn("apply detected language", "language", res.Name, "error", err)
			s.setStatus(StatusUnsupportedSource)
			return types.TranslateResult{}, fmt.Errorf("apply detected language %q: %w", res.Name, err)
		}
		source = s.sel.Source
		s.persistSelection()
		s.mu.Unlock()

		slog.Debug("language detected", "language", res.Name, "stage", res.Stage)
		s.emitState()
		s.setStatus("Detected language: " + res.Name)
	}

	s.mu.Lock()
	target := s.sel.Target
	api := s.cfg.Ollama.API
	s.mu.Unlock()

	s.setStatus(fmt.Sprintf("Translating → %s...", target))
	s.emit(EventTargetText, "")

	result, err := s.translator.Translate(ctx, completer, TranslateProfile{API: api, Model: model}, types.TranslateRequest{
		Text:       text,
		SourceLang: string(source),
		TargetLang: string(target),
	})
	if !s.current(id) {
		return types.TranslateResult{}, ErrSuperseded
	}
	if err != nil {
		slog.Error("translate", "model", model, "target", target, "error", err)
		s.setStatus("Error: " + err.Error())
		return types.TranslateResult{}, err
	}

	result.ID = id
	s.emit(EventTargetText, result.Text)
	s.emit(EventTranslation, result)
	s.setStatus(StatusReady)
	return result, nil
}

// begin makes a new translation current, cancelling the one it replaces.
func (s *Service) begin(parent context.Context) (context.Context, string) {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()

	s.mu.Lock()
	if s.inflight.cancel != nil {
		slog.Debug("superseding translation", "id", s.inflight.id)
		s.inflight.cancel()
	}
	s.inflight = inflight{id: id, cancel: cancel}
	s.mu.Unlock()

	s.emitState()
	return ctx, id
}

func (s *Service) end(id string) {
	s.mu.Lock()
	done := s.inflight.id == id
	if done {
		s.inflight.cancel()
		s.inflight = inflight{}
	}
	s.mu.Unlock()

	if done {
		s.emitState()
	}
}

func (s *Service) current(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight.id == id
}

// ─────────────────────────────────────────────────────────────────────────────
// Window & Clipboard
// ─────────────────────────────────────────────────────────────────────────────

// TranslateClipboard brings up the window with the clipboard text and
// translates it. Bound to the global hotkey and the tray menu.
func (s *Service) TranslateClipboard() {
	err := s.translateClipboard(context.Background())
	switch {
	case err == nil, errors.Is(err, ErrNoText), errors.Is(err, ErrSuperseded),
		errors.Is(err, ErrUnsupportedLanguage):
	default:
		slog.Warn("translate clipboard", "error", err)
	}
}

func (s *Service) translateClipboard(ctx context.Context) error {
	if s.clip == nil {
		return clipboard.ErrUnavailable
	}

	text, err := s.clip.Text()
	if err != nil {
		s.setStatus("Clipboard error: " + err.Error())
		return err
	}
	if strings.TrimSpace(text) == "" {
		return ErrNoText
	}

	s.emit(EventSourceText, text)
	s.ShowWindow()

	_, err = s.translate(ctx, text)
	return err
}

// Clear resets both text boxes.
func (s *Service) Clear() {
	s.emit(EventSourceText, "")
	s.emit(EventTargetText, "")
	s.setStatus(StatusCleared)
}

// CopyTranslation puts text on the clipboard. Blank text is ignored.
func (s *Service) CopyTranslation(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if s.clip == nil {
		s.setStatus("Copy failed: " + clipboard.ErrUnavailable.Error())
		return
	}
	if err := s.clip.SetText(text); err != nil {
		s.setStatus("Copy failed: " + err.Error())
		return
	}
	s.setStatus(StatusCopied)
}

// OpenAbout opens the project page in the default browser.
func (s *Service) OpenAbout() {
	if err := s.openURL(AboutURL); err != nil {
		s.setStatus("Open link failed: " + err.Error())
		return
	}
	s.setStatus(StatusOpeningAbout)
}

// ShowWindow brings the main window to the bottom-right corner.
func (s *Service) ShowWindow() {
	if s.window != nil {
		s.window.Show()
	}
}

// HideWindow hides the main window.
func (s *Service) HideWindow() {
	if s.window != nil {
		s.window.Hide()
	}
}

// ToggleWindow shows a hidden window and hides a visible one.
func (s *Service) ToggleWindow() {
	if s.window != nil {
		s.window.Toggle()
	}
}
