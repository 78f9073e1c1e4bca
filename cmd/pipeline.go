package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.aimuz.me/deeplocal/cache"
	"go.aimuz.me/deeplocal/config"
	"go.aimuz.me/deeplocal/internal/app"
	"go.aimuz.me/deeplocal/internal/types"
	"go.aimuz.me/deeplocal/langdetect"
	"go.aimuz.me/deeplocal/llm"
)

// pipeline is the tray app's detect-then-translate flow without a window.
type pipeline struct {
	cfg        *config.Config
	cache      *cache.Cache
	completer  llm.Completer
	detector   *app.Detector
	translator *app.Translator
}

func newPipeline(cfg *config.Config) *pipeline {
	p := &pipeline{cfg: cfg}

	if cfg.Cache.Enabled {
		p.cache = openCache()
	}

	var local *langdetect.Detector
	if cfg.LocalDetection {
		local = langdetect.NewDetector(0)
	}

	p.completer = llm.NewCompleter(llm.Options{
		API:        cfg.Ollama.API,
		Host:       cfg.Ollama.Host,
		Model:      cfg.Model,
		APIKey:     cfg.Ollama.APIKey,
		HTTPClient: llm.NewHTTPClient(time.Duration(cfg.Ollama.TimeoutSeconds)*time.Second, cfg.Ollama.Retries),
	})
	p.detector = app.NewDetector(local)
	p.translator = app.NewTranslator(p.cache, time.Duration(cfg.Cache.TTLHours)*time.Hour)
	return p
}

// openCache returns nil when the cache cannot be opened, typically because
// the tray app already holds it.
func openCache() *cache.Cache {
	dir, err := config.Dir()
	if err != nil {
		slog.Warn("get config dir for cache", "error", err)
		return nil
	}
	c, err := cache.New(filepath.Join(dir, "cache"))
	if err != nil {
		slog.Warn("cache unavailable, continuing without it", "error", err)
		return nil
	}
	return c
}

func (p *pipeline) Close() error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Close()
}

func (p *pipeline) detect(ctx context.Context, text string) types.DetectResult {
	return p.detector.Detect(ctx, p.completer, text)
}

// translate resolves from and to against the configured selection. An empty
// from or to falls back to the config; "Auto" triggers detection.
func (p *pipeline) translate(ctx context.Context, text, from, to string) (types.TranslateResult, error) {
	if from == "" {
		from = p.cfg.SourceLang
	}
	if to == "" {
		to = p.cfg.TargetLang
	}

	source := langdetect.Parse(from)
	if source == langdetect.Unsupported {
		return types.TranslateResult{}, fmt.Errorf("unsupported source language %q", from)
	}
	if !langdetect.IsSupported(to) {
		return types.TranslateResult{}, fmt.Errorf("unsupported target language %q", to)
	}
	target := langdetect.Parse(to)

	if source.IsAuto() {
		res := p.detect(ctx, text)
		if res.Name == string(langdetect.Unsupported) {
			return types.TranslateResult{}, app.ErrUnsupportedLanguage
		}
		slog.Debug("language detected", "language", res.Name, "stage", res.Stage)
		source = langdetect.Language(res.Name)
	}

	return p.translator.Translate(ctx, p.completer, app.TranslateProfile{
		API:   p.cfg.Ollama.API,
		Model: p.cfg.Model,
	}, types.TranslateRequest{
		Text:       text,
		SourceLang: string(source),
		TargetLang: string(target),
	})
}
