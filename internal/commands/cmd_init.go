package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/hay-kot/codereview/internal/commands/init"
)

type InitCmd struct {
	flags    *Flags
	yes      bool
	force    bool
	provider string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize codereview configuration with an interactive wizard",
		UsageText: "codereview init [options]",
		Description: `Sets up codereview for first-time use with an interactive wizard.

The wizard asks for the review provider, model, API key variable, server
address, editor endpoint and theme, then writes ~/.config/codereview/config.yaml.

Use --yes to accept all defaults without prompts.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "provider",
				Usage:       "preselect the review provider",
				Destination: &cmd.provider,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		Yes:        cmd.yes,
		Force:      cmd.force,
		Provider:   cmd.provider,
	})
	return wizard.Run(ctx)
}
