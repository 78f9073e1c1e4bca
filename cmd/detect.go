package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.aimuz.me/deeplocal/langdetect"
)

func newDetectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:          "detect [text]",
		Short:        "Identify the language of text from the arguments or stdin",
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

			res := p.detect(cmd.Context(), text)
			if res.Name == string(langdetect.Unsupported) {
				fmt.Fprintln(cmd.OutOrStdout(), res.Name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", res.Name, res.Code, res.Stage)
			return nil
		},
	}
}
