package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funa-dev/funa"
	"github.com/funa-dev/funa/internal/errors"
	"github.com/funa-dev/funa/pkg/render"
)

func checkCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Compile and test-render templates",
		Long: `Compile every template declared in the given documents and render
each one against the data file, reporting coded errors.

Without arguments the configured template is checked.

Examples:
  funa check
  funa check pages/*.html --data data.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(nil)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
			p := newProject(cfg, logger, nil)

			state, err := p.state(cmd.Context())
			if err != nil {
				return err
			}

			files := args
			if len(files) == 0 {
				files = []string{cfg.Template}
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, file := range files {
				names, err := p.check(cmd.Context(), file, state)
				if err != nil {
					failed++
					failure(out, "%s", errors.FromError(err).FormatCompact())
					continue
				}
				success(out, "%s (%s)", file, strings.Join(displayNames(names), ", "))
			}

			if failed > 0 {
				return errors.New("F132").WithDetail(fmt.Sprintf("%d of %d files failed", failed, len(files)))
			}
			return nil
		},
	}

	return cmd
}

// check compiles the templates of file and renders each into a detached
// element. It returns the template names in declaration order.
func (p *project) check(ctx context.Context, file string, state funa.Init) ([]string, error) {
	doc, src, err := p.document(ctx, absPath(file))
	if err != nil {
		return nil, err
	}

	r := render.New(doc, render.Options{
		Data:       state.Data,
		As:         state.As,
		If:         state.If,
		Is:         state.Is,
		On:         state.On,
		BypassTags: state.Config.BypassTags,
		Logger:     p.logger,
	})
	if _, err := r.Compile(doc.Body()); err != nil {
		return nil, errors.FromError(err).WithSource(file, src)
	}

	names := r.Templates()
	for _, name := range names {
		scratch := doc.CreateElement("div")
		if err := r.RenderTemplate(ctx, scratch, name); err != nil {
			return nil, errors.FromError(err).WithSource(file, src)
		}
	}
	return names, nil
}

func displayNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		if name == "" {
			name = "anonymous"
		}
		out[i] = name
	}
	return out
}
