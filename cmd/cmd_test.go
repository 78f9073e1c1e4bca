package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.aimuz.me/deeplocal/config"
	"go.aimuz.me/deeplocal/internal/app"
)

// fakeOllama answers detection prompts with label and everything else with reply.
func fakeOllama(t *testing.T, label, reply string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"gemma3:12b"},{"name":"qwen2.5:7b"}]}`))
		case "/api/generate":
			var req struct {
				Model  string `json:"model"`
				Prompt string `json:"prompt"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			out := reply
			if strings.HasPrefix(req.Prompt, "You are a language identifier.") {
				out = label
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"model": req.Model, "response": out, "done": true})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("DEEPLOCAL_LOCAL_DETECTION", "false")
	cfgPath := filepath.Join(t.TempDir(), "config.json")

	root := newRootCmd(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"}, func(*config.Config) error { return nil })

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath, "--no-cache"}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestTranslateCmd(t *testing.T) {
	srv := fakeOllama(t, "Italian", "Good morning")

	out, err := run(t, "", "translate", "--host", srv.URL, "--from", "Italian", "--to", "English", "Buongiorno")
	if err != nil {
		t.Fatalf("translate error = %v", err)
	}
	if out != "Good morning\n" {
		t.Errorf("output = %q", out)
	}
}

func TestTranslateCmd_AutoFromStdin(t *testing.T) {
	srv := fakeOllama(t, "Italian", "```Good morning```")

	out, err := run(t, "Buongiorno\n", "translate", "--host", srv.URL)
	if err != nil {
		t.Fatalf("translate error = %v", err)
	}
	if out != "Good morning\n" {
		t.Errorf("output = %q", out)
	}
}

func TestTranslateCmd_Unsupported(t *testing.T) {
	srv := fakeOllama(t, "Portuguese", "never")

	_, err := run(t, "", "translate", "--host", srv.URL, "Bom dia")
	if !errors.Is(err, app.ErrUnsupportedLanguage) {
		t.Errorf("error = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestTranslateCmd_BadLanguages(t *testing.T) {
	srv := fakeOllama(t, "", "")

	if _, err := run(t, "", "translate", "--host", srv.URL, "--to", "Auto", "hi"); err == nil {
		t.Error("--to Auto should fail")
	}
	if _, err := run(t, "", "translate", "--host", srv.URL, "--from", "Klingon", "hi"); err == nil {
		t.Error("--from Klingon should fail")
	}
	if _, err := run(t, "  ", "translate", "--host", srv.URL); err == nil {
		t.Error("blank stdin should fail")
	}
}

func TestDetectCmd(t *testing.T) {
	srv := fakeOllama(t, "French", "")

	tests := []struct {
		name string
		text string
		want string
	}{
		{"script", "こんにちは", "Japanese\tja\tscript\n"},
		{"model", "Bonjour tout le monde", "French\tfr\tllm\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", "detect", "--host", srv.URL, tt.text)
			if err != nil {
				t.Fatalf("detect error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestModelsCmd(t *testing.T) {
	srv := fakeOllama(t, "", "")

	out, err := run(t, "", "models", "--host", srv.URL)
	if err != nil {
		t.Fatalf("models error = %v", err)
	}
	if out != "* gemma3:12b\n  qwen2.5:7b\n" {
		t.Errorf("output = %q", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if out != "deeplocal 1.2.3 (commit abc, built today)\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRootFlagsReachGUI(t *testing.T) {
	t.Setenv("DEEPLOCAL_LOCAL_DETECTION", "false")
	// Keep the GUI's log file out of the real config dir.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var got *config.Config
	root := newRootCmd(BuildInfo{}, func(cfg *config.Config) error {
		got = cfg
		return nil
	})
	root.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "config.json"),
		"--host", "http://gpu-box:11434/",
		"--model", "llama3.1:8b",
		"--api", "OpenAI",
		"--log-level", "debug",
		"--no-cache",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got == nil {
		t.Fatal("GUI was not started")
	}
	if got.Ollama.Host != "http://gpu-box:11434" || got.Model != "llama3.1:8b" || got.Ollama.API != "openai" {
		t.Errorf("config = %+v", got.Ollama)
	}
	if got.Log.Level != "debug" || got.Cache.Enabled {
		t.Errorf("log/cache = %+v / %+v", got.Log, got.Cache)
	}
}

func TestRootRejectsUnknownAPI(t *testing.T) {
	root := newRootCmd(BuildInfo{}, func(*config.Config) error { return nil })
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "config.json"), "--api", "grpc"})
	if err := root.Execute(); err == nil {
		t.Error("unknown --api should fail")
	}
}

func TestInputText(t *testing.T) {
	got, err := inputText(strings.NewReader("ignored"), []string{"hello", "world"})
	if err != nil || got != "hello world" {
		t.Errorf("args: %q, %v", got, err)
	}

	got, err = inputText(strings.NewReader("line one\nline two\r\n"), nil)
	if err != nil || got != "line one\nline two" {
		t.Errorf("stdin: %q, %v", got, err)
	}
}
