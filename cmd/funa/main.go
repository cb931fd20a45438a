// Command funa renders, checks and previews funa templates.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/funa-dev/funa"
	"github.com/funa-dev/funa/internal/errors"
)

// Version information set at build time.
var (
	version = funa.Version
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "funa",
		Short: "Render live templates over data",
		Long: `Funa renders declarative templates over mutable data.

Templates are plain HTML inside <template> elements. The CLI renders them
against JSON or YAML data, checks them for errors, and serves a live
preview whose bindings run on the server.

Sources may be local paths or s3://bucket/key URLs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", ".", "Configuration file or directory holding funa.yaml")
	flags.StringVarP(&opts.data, "data", "d", "", "Data file, JSON or YAML (default from funa.yaml)")
	flags.StringVar(&opts.script, "script", "", "Registry script (default from funa.yaml)")
	flags.StringVarP(&opts.name, "name", "n", "", "Template to render (default: the first)")
	flags.StringSliceVar(&opts.bypass, "bypass", nil, "Extra tags copied verbatim")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		renderCmd(opts),
		checkCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// failure prints a failure message.
func failure(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}
