package app

import (
	"context"
	"fmt"
	"time"

	"go.aimuz.me/deeplocal/cache"
	"go.aimuz.me/deeplocal/internal/types"
	"go.aimuz.me/deeplocal/llm"
)

// Translator encapsulates translation logic with caching.
// Zero value is not useful; create via NewTranslator.
type Translator struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewTranslator creates a Translator. A nil cache disables caching and a
// non-positive ttl selects cache.DefaultTTL.
func NewTranslator(c *cache.Cache, ttl time.Duration) *Translator {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Translator{cache: c, ttl: ttl}
}

// TranslateProfile identifies the backend a translation was produced by.
type TranslateProfile struct {
	API   string
	Model string
}

// Translate sends the prompt for req to completer and returns the cleaned
// translation. Cached results are returned without calling the model.
func (t *Translator) Translate(ctx context.Context, completer llm.Completer, profile TranslateProfile, req types.TranslateRequest) (types.TranslateResult, error) {
	if req.TargetLang == "" {
		return types.TranslateResult{}, fmt.Errorf("translate: no target language")
	}

	key := t.cacheKey(profile, req)
	if result, ok := t.getCached(key); ok {
		result.SourceLang, result.TargetLang = req.SourceLang, req.TargetLang
		return result, nil
	}

	msgs := []llm.Message{
		{Role: "user", Content: BuildPrompt(req.Text, req.TargetLang)},
	}

	raw, usage, err := completer.Complete(ctx, msgs)
	if err != nil {
		return types.TranslateResult{}, fmt.Errorf("translate: %w", err)
	}
	text := CleanOutput(raw)

	// Empty output is not worth remembering
	if text != "" {
		t.setCache(key, text, usage)
	}

	return types.TranslateResult{
		Text:       text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Usage:      usage,
	}, nil
}

func (t *Translator) cacheKey(p TranslateProfile, req types.TranslateRequest) string {
	return cache.GenerateKey(p.API, p.Model, req.SourceLang, req.TargetLang, req.Text)
}

func (t *Translator) getCached(key string) (types.TranslateResult, bool) {
	if t.cache == nil {
		return types.TranslateResult{}, false
	}

	entry, found := t.cache.Get(key)
	if !found {
		return types.TranslateResult{}, false
	}

	return types.TranslateResult{
		Text: entry.Text,
		Usage: types.Usage{
			PromptTokens:     entry.Usage.PromptTokens,
			CompletionTokens: entry.Usage.CompletionTokens,
			TotalTokens:      entry.Usage.TotalTokens,
			CacheHit:         true,
		},
	}, true
}

func (t *Translator) setCache(key, text string, usage types.Usage) {
	if t.cache == nil {
		return
	}

	entry := &cache.Entry{
		Text: text,
		Usage: cache.Usage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		},
		CreatedAt: time.Now(),
	}

	// Ignore error - caching is best effort
	_ = t.cache.Set(key, entry, t.ttl)
}
