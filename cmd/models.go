package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go.aimuz.me/deeplocal/llm"
)

func newModelsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:          "models",
		Short:        "List the models installed on the Ollama server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			closer, err := setupLogging(cfg, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			client := llm.NewHTTPClient(10*time.Second, cfg.Ollama.Retries)
			models, err := llm.ListModels(cmd.Context(), client, cfg.Ollama.Host)
			if err != nil {
				return fmt.Errorf("list models on %s: %w", cfg.Ollama.Host, err)
			}

			for _, m := range models {
				mark := " "
				if m == cfg.Model {
					mark = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, m)
			}
			return nil
		},
	}
}
