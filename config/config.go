// Package config handles application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.aimuz.me/deeplocal/langdetect"
	"go.aimuz.me/deeplocal/llm"
)

const (
	appName        = "deeplocal"
	configFileName = "config.json"
	envFileName    = ".env"
	envPrefix      = "DEEPLOCAL_"
)

// Defaults mirror a stock local Ollama setup.
const (
	DefaultTranslateHotkey = "Alt+T"
	DefaultTimeoutSeconds  = 120
	DefaultRetries         = 2
	DefaultCacheTTLHours   = 24 * 7
	DefaultLogLevel        = "info"
)

// Config represents the application configuration.
type Config struct {
	Ollama OllamaConfig `json:"ollama" envPrefix:"OLLAMA_"`

	// Model is the model tag translations are sent to.
	Model string `json:"model" env:"MODEL"`
	// Models are offered in the model picker alongside installed ones.
	Models []string `json:"models,omitempty"`

	SourceLang         string `json:"source_lang"`
	TargetLang         string `json:"target_lang"`
	LastExplicitSource string `json:"last_explicit_source"`

	// LocalDetection runs the statistical detector before asking the model.
	LocalDetection bool `json:"local_detection" env:"LOCAL_DETECTION"`

	Hotkeys HotkeyConfig `json:"hotkeys" envPrefix:"HOTKEY_"`
	Window  WindowConfig `json:"window"`
	Cache   CacheConfig  `json:"cache" envPrefix:"CACHE_"`
	Log     LogConfig    `json:"log" envPrefix:"LOG_"`

	path string
}

// OllamaConfig describes the inference server.
type OllamaConfig struct {
	Host           string `json:"host" env:"HOST"`
	API            string `json:"api" env:"API"` // "ollama" or "openai"
	APIKey         string `json:"api_key,omitempty" env:"API_KEY"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	Retries        int    `json:"retries" env:"RETRIES"`
}

// HotkeyConfig holds global shortcut bindings. Empty disables a binding.
type HotkeyConfig struct {
	TranslateClipboard string `json:"translate_clipboard" env:"TRANSLATE"`
	ToggleWindow       string `json:"toggle_window,omitempty" env:"TOGGLE"`
}

// WindowConfig controls the main window geometry, in DIP.
type WindowConfig struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Margin float64 `json:"margin"`
}

// CacheConfig controls the translation cache.
type CacheConfig struct {
	Enabled  bool `json:"enabled" env:"ENABLED"`
	TTLHours int  `json:"ttl_hours" env:"TTL_HOURS"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `json:"level" env:"LEVEL"`
	File  bool   `json:"file" env:"FILE"`
}

// Dir returns the per-user directory holding config, cache and logs.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName), nil
}

// Load loads configuration from the default location.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(dir, configFileName))
}

// LoadFile loads configuration from path, then applies a .env file found
// next to it and DEEPLOCAL_* environment variables.
func LoadFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), envFileName)); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

// readFile loads the JSON file over the defaults, with no overrides.
func readFile(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}
	return cfg, nil
}

// loadDotEnv exports variables from path without overriding ones already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from DEEPLOCAL_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Path returns the file Save writes to.
func (c *Config) Path() string {
	return c.path
}

// Update applies fn to c and to the settings stored in c's file, then
// saves the stored copy. Values that came from .env, the environment or
// flags stay in memory and never reach the file.
func (c *Config) Update(fn func(*Config)) error {
	fn(c)

	path, err := c.resolvePath()
	if err != nil {
		return err
	}
	stored, err := readFile(path)
	if err != nil {
		return err
	}
	fn(stored)
	stored.normalize()
	return stored.Save()
}

func (c *Config) resolvePath() (string, error) {
	if c.path != "" {
		return c.path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	c.path = filepath.Join(dir, configFileName)
	return c.path, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path, err := c.resolvePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Write through a temp file so a crash never leaves half a config.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Ollama: OllamaConfig{
			Host:           llm.DefaultHost,
			API:            llm.APIOllama,
			TimeoutSeconds: DefaultTimeoutSeconds,
			Retries:        DefaultRetries,
		},
		Model:              llm.DefaultModel,
		Models:             []string{llm.DefaultModel},
		SourceLang:         string(langdetect.Auto),
		TargetLang:         string(langdetect.English),
		LastExplicitSource: string(langdetect.English),
		LocalDetection:     true,
		Hotkeys: HotkeyConfig{
			TranslateClipboard: DefaultTranslateHotkey,
		},
		Window: WindowConfig{Width: 900, Height: 600, Margin: 16},
		Cache:  CacheConfig{Enabled: true, TTLHours: DefaultCacheTTLHours},
		Log:    LogConfig{Level: DefaultLogLevel, File: true},
	}
}

// normalize repairs values a hand-edited file may get wrong.
func (c *Config) normalize() {
	def := Default()

	c.Ollama.Host = llm.NormalizeHost(c.Ollama.Host)
	switch strings.ToLower(strings.TrimSpace(c.Ollama.API)) {
	case llm.APIOpenAI:
		c.Ollama.API = llm.APIOpenAI
	default:
		c.Ollama.API = llm.APIOllama
	}
	if c.Ollama.TimeoutSeconds <= 0 {
		c.Ollama.TimeoutSeconds = def.Ollama.TimeoutSeconds
	}
	if c.Ollama.Retries < 0 {
		c.Ollama.Retries = 0
	}

	c.Model = strings.TrimSpace(c.Model)
	if c.Model == "" {
		c.Model = def.Model
	}
	c.Models = MergeModels(c.Models, []string{c.Model})

	if src := langdetect.Parse(c.SourceLang); src == langdetect.Unsupported {
		c.SourceLang = def.SourceLang
	} else {
		c.SourceLang = string(src)
	}
	if !langdetect.IsSupported(c.TargetLang) {
		c.TargetLang = def.TargetLang
	} else {
		c.TargetLang = string(langdetect.Parse(c.TargetLang))
	}
	if !langdetect.IsSupported(c.LastExplicitSource) {
		c.LastExplicitSource = def.LastExplicitSource
	} else {
		c.LastExplicitSource = string(langdetect.Parse(c.LastExplicitSource))
	}

	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	if c.Window.Margin < 0 {
		c.Window.Margin = def.Window.Margin
	}

	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = def.Cache.TTLHours
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// MergeModels returns a followed by the entries of b it lacks, skipping blanks.
func MergeModels(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, m := range list {
			m = strings.TrimSpace(m)
			if m != "" && !slices.Contains(out, m) {
				out = append(out, m)
			}
		}
	}
	return out
}
