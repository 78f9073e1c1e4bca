package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTranslateCmd(opts *options) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text from the arguments or stdin",
		Example: `  deeplocal translate --to Italian "Good morning"
  pbpaste | deeplocal translate --from Auto --to English`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			closer, err := setupLogging(cfg, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			text, err := inputText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			p := newPipeline(cfg)
			defer p.Close()

			res, err := p.translate(cmd.Context(), text, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source language or Auto (default from config)")
	cmd.Flags().StringVar(&to, "to", "", "target language (default from config)")
	return cmd
}
