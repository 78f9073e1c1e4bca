// Package cmd implements the deeplocal command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"go.aimuz.me/deeplocal/config"
	"go.aimuz.me/deeplocal/internal/logging"
	"go.aimuz.me/deeplocal/llm"
)

// BuildInfo is stamped in by the linker.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// GUIFunc starts the tray application and blocks until it exits.
type GUIFunc func(cfg *config.Config) error

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	host       string
	model      string
	api        string
	logLevel   string
	noCache    bool
}

func newRootCmd(info BuildInfo, gui GUIFunc) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "deeplocal",
		Short: "Offline translator backed by a local Ollama model",
		Long: `DeepLocal translates text with a model served by a local Ollama install.

Without a subcommand it starts the tray application: press Alt+T anywhere to
translate the clipboard. The subcommands run the same pipeline headless.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			closer, err := setupLogging(cfg, true)
			if err != nil {
				return err
			}
			defer closer.Close()

			return gui(cfg)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default is <user config dir>/deeplocal/config.json)")
	f.StringVar(&opts.host, "host", "", "Ollama base URL (default "+llm.DefaultHost+")")
	f.StringVar(&opts.model, "model", "", "model tag (default "+llm.DefaultModel+")")
	f.StringVar(&opts.api, "api", "", `server API flavour: "ollama" or "openai"`)
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	f.BoolVar(&opts.noCache, "no-cache", false, "bypass the translation cache")

	cmd.AddCommand(newTranslateCmd(opts))
	cmd.AddCommand(newDetectCmd(opts))
	cmd.AddCommand(newModelsCmd(opts))
	cmd.AddCommand(newVersionCmd(info))

	return cmd
}

// Execute invokes the command.
func Execute(info BuildInfo, gui GUIFunc) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd(info, gui).ExecuteContext(ctx)
}

// load reads the config file and applies flags the user actually set.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Ollama.Host = llm.NormalizeHost(o.host)
	}
	if flags.Changed("model") {
		if m := strings.TrimSpace(o.model); m != "" {
			cfg.Model = m
			cfg.Models = config.MergeModels(cfg.Models, []string{m})
		}
	}
	if flags.Changed("api") {
		switch api := strings.ToLower(strings.TrimSpace(o.api)); api {
		case llm.APIOllama, llm.APIOpenAI:
			cfg.Ollama.API = api
		default:
			return nil, fmt.Errorf("unknown api %q: want %q or %q", o.api, llm.APIOllama, llm.APIOpenAI)
		}
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if o.noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// setupLogging installs the default logger. Headless commands keep stdout
// for results and only log to stderr.
func setupLogging(cfg *config.Config, withFile bool) (io.Closer, error) {
	opts := logging.Options{
		Level:   cfg.Log.Level,
		Console: os.Stderr,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
	if withFile && cfg.Log.File {
		if dir, err := config.Dir(); err == nil {
			opts.File = filepath.Join(dir, "logs", "deeplocal.log")
		}
	}

	_, closer, err := logging.Setup(opts)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return closer, nil
}

// inputText joins args, or reads stdin when there are none.
func inputText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimRight(string(data), "\r\n")
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no text given: pass it as arguments or on stdin")
	}
	return text, nil
}
