package cli

import (
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/recipebox/internal/client/config"
	ucli "github.com/urfave/cli/v3"
)

const name = "recipebox"

// NewCommand builds the client's command line. Without a subcommand it
// starts the interactive session; "ping" only checks the server.
func NewCommand(in io.Reader, out io.Writer) *ucli.Command {
	return &ucli.Command{
		Name:   name,
		Usage:  "Interactive client for the recipebox server",
		Writer: out,
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to JSON config file",
				Sources: ucli.EnvVars("RECIPEBOX_CONFIG"),
			},
			&ucli.StringFlag{
				Name:    "server",
				Aliases: []string{"a"},
				Usage:   "base URL of the recipebox server",
				Sources: ucli.EnvVars("RECIPEBOX_SERVER"),
			},
			&ucli.DurationFlag{
				Name:  "timeout",
				Usage: "timeout for a single request",
			},
			&ucli.DurationFlag{
				Name:    "check-interval",
				Aliases: []string{"i"},
				Usage:   "how often to check that the server is reachable",
			},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			cfg, err := configFromCmd(cmd)
			if err != nil {
				return err
			}
			app, err := NewApp(cfg, in, out)
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
		Commands: []*ucli.Command{
			{
				Name:  "ping",
				Usage: "Check that the server is reachable",
				Action: func(ctx context.Context, cmd *ucli.Command) error {
					cfg, err := configFromCmd(cmd)
					if err != nil {
						return err
					}
					app, err := NewApp(cfg, in, out)
					if err != nil {
						return err
					}
					app.checkOnline(ctx)
					if app.currentMode() != ModeOnline {
						return ucli.Exit("server unavailable", 1)
					}
					return nil
				},
			},
		},
	}
}

// configFromCmd applies defaults, then the config file, then flags.
func configFromCmd(cmd *ucli.Command) (*config.Config, error) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	if path := cmd.String("config"); path != "" {
		if err := cfg.LoadJSON(path); err != nil {
			return nil, err
		}
	}
	if cmd.IsSet("server") {
		cfg.ServerURL = cmd.String("server")
	}
	if cmd.IsSet("timeout") {
		cfg.RequestTimeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("check-interval") {
		cfg.OnlineCheckInterval = cmd.Duration("check-interval")
	}
	return cfg, nil
}

// Execute runs the client with the process arguments.
func Execute(ctx context.Context) error {
	return NewCommand(os.Stdin, os.Stdout).Run(ctx, os.Args)
}
