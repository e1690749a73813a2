package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treescope/internal/config"
	"github.com/matzehuels/treescope/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Every subcommand runs after preRun, which loads the config file named by
// --config (or the default location) and attaches the logger to the
// command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Treescope draws document trees and lets you drill into them",
		Long:              `Treescope loads an HTML document (file, stdin, URL or live browser DOM), lays its element tree out as nested intervals and draws it. Clicking a node re-roots the drawing at that node; clicking the arrow in the top-left corner goes back.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.preRun,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/treescope/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) preRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	installLogHooks(c.Logger)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
