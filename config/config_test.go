package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Ollama.Host != "http://127.0.0.1:11434" {
		t.Errorf("host = %q", cfg.Ollama.Host)
	}
	if cfg.Model != "gemma3:12b" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.SourceLang != "Auto" || cfg.TargetLang != "English" || cfg.LastExplicitSource != "English" {
		t.Errorf("languages = %q -> %q (last %q)", cfg.SourceLang, cfg.TargetLang, cfg.LastExplicitSource)
	}
	if cfg.Hotkeys.TranslateClipboard != "Alt+T" {
		t.Errorf("hotkey = %q", cfg.Hotkeys.TranslateClipboard)
	}
	if cfg.Window.Margin != 16 {
		t.Errorf("margin = %v", cfg.Window.Margin)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoadFile_NormalizesHandEditedValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{
		"ollama": {"host": "localhost:11434/", "api": "OpenAI", "timeout_seconds": -1},
		"model": "  llama3.2:3b ",
		"models": ["gemma3:12b", "", "gemma3:12b"],
		"source_lang": "klingon",
		"target_lang": "italian",
		"last_explicit_source": "Auto",
		"window": {"width": 0, "height": 480, "margin": -4}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Ollama.Host != "http://localhost:11434" || cfg.Ollama.API != "openai" {
		t.Errorf("ollama = %+v", cfg.Ollama)
	}
	if cfg.Ollama.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("timeout = %d", cfg.Ollama.TimeoutSeconds)
	}
	if cfg.Model != "llama3.2:3b" {
		t.Errorf("model = %q", cfg.Model)
	}
	if len(cfg.Models) != 2 || cfg.Models[0] != "gemma3:12b" || cfg.Models[1] != "llama3.2:3b" {
		t.Errorf("models = %v", cfg.Models)
	}
	if cfg.SourceLang != "Auto" || cfg.TargetLang != "Italian" || cfg.LastExplicitSource != "English" {
		t.Errorf("languages = %q -> %q (last %q)", cfg.SourceLang, cfg.TargetLang, cfg.LastExplicitSource)
	}
	if cfg.Window.Width != 900 || cfg.Window.Height != 480 || cfg.Window.Margin != 16 {
		t.Errorf("window = %+v", cfg.Window)
	}
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"model":"gemma3:12b"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DEEPLOCAL_MODEL", "qwen2.5:7b")
	t.Setenv("DEEPLOCAL_OLLAMA_HOST", "http://gpu-box:11434")
	t.Setenv("DEEPLOCAL_CACHE_ENABLED", "false")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Model != "qwen2.5:7b" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.Ollama.Host != "http://gpu-box:11434" {
		t.Errorf("host = %q", cfg.Ollama.Host)
	}
	if cfg.Cache.Enabled {
		t.Error("cache still enabled")
	}
}

func TestLoadFile_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DEEPLOCAL_HOTKEY_TOGGLE=Ctrl+Shift+D\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv exports into the process; make sure the variable is cleared
	// once the test ends.
	t.Setenv("DEEPLOCAL_HOTKEY_TOGGLE", "")
	os.Unsetenv("DEEPLOCAL_HOTKEY_TOGGLE")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Hotkeys.ToggleWindow != "Ctrl+Shift+D" {
		t.Errorf("toggle hotkey = %q", cfg.Hotkeys.ToggleWindow)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile() accepted invalid JSON")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.TargetLang = "Hebrew"
	cfg.Model = "llama3.2:3b"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	again, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if again.TargetLang != "Hebrew" || again.Model != "llama3.2:3b" {
		t.Errorf("reloaded %q / %q", again.TargetLang, again.Model)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestUpdate_WritesOnlyStoredSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"ollama":{"host":"http://my-box:11434"},"target_lang":"German"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEEPLOCAL_OLLAMA_API_KEY", "sk-secret")
	t.Setenv("DEEPLOCAL_OLLAMA_HOST", "http://10.0.0.5:11434")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Cache.Enabled = false

	err = cfg.Update(func(c *Config) {
		c.TargetLang = "French"
		c.Models = MergeModels(c.Models, []string{"phi4:14b"})
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if cfg.TargetLang != "French" || cfg.Ollama.Host != "http://10.0.0.5:11434" || cfg.Cache.Enabled {
		t.Errorf("in memory: target %q host %q cache %v", cfg.TargetLang, cfg.Ollama.Host, cfg.Cache.Enabled)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "sk-secret") || strings.Contains(string(data), "10.0.0.5") {
		t.Errorf("overrides written to file:\n%s", data)
	}

	stored, err := readFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Ollama.Host != "http://my-box:11434" {
		t.Errorf("stored host = %q", stored.Ollama.Host)
	}
	if !stored.Cache.Enabled {
		t.Error("stored cache disabled")
	}
	if stored.TargetLang != "French" {
		t.Errorf("stored target = %q", stored.TargetLang)
	}
	if !slices.Contains(stored.Models, "phi4:14b") {
		t.Errorf("stored models = %v", stored.Models)
	}
}

func TestMergeModels(t *testing.T) {
	got := MergeModels([]string{"a", " b ", ""}, []string{"b", "c", "a"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("MergeModels() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MergeModels()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
