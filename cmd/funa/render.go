package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func renderCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a template to HTML",
		Long: `Render the first template of an HTML document, or the one named by
--name, against the data file and print the resulting document.

Examples:
  funa render index.html --data data.yaml
  funa render s3://site/index.html --name card --script registry.js
  funa render -o out.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(args)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)

			doc, _, err := newProject(cfg, logger, nil).open(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := doc.Render(w); err != nil {
				return err
			}
			_, err = fmt.Fprintln(w)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to a file instead of stdout")

	return cmd
}
