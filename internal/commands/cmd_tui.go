package commands

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/codereview/internal/render"
	"github.com/hay-kot/codereview/internal/reviewclient"
	"github.com/hay-kot/codereview/internal/session"
	"github.com/hay-kot/codereview/internal/tui"
	"github.com/hay-kot/codereview/pkg/logutils"
)

type TuiCmd struct {
	flags *Flags
	file  string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "preload the editor with the contents of a file",
			Local:       true,
			Destination: &cmd.file,
		},
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the review editor (default command)",
		UsageText: "codereview tui [--file path]",
		Description: `Opens a two pane editor. Type or paste JavaScript on the left and press
ctrl+r to send it to the review endpoint; the review is rendered on the right.

Keys:
  ctrl+r  request a review of the current code
  tab     switch between editing and the highlighted preview
  ctrl+l  load the default snippet
  ctrl+g  toggle full help
  ctrl+c  quit`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	// The editor owns the terminal, so logs always go to a file.
	if cmd.flags.LogFile == "" {
		logger, closer, err := logutils.New(cmd.flags.LogLevel, DefaultLogFile(), false)
		if err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
		defer closer()
		log.Logger = logger
	}

	renderer := render.New(render.Options{})
	client := reviewclient.New(reviewclient.Config{Endpoint: cmd.flags.EndpointOrConfig()})
	sess := session.New(client, renderer)

	if cmd.file != "" {
		data, err := os.ReadFile(cmd.file)
		if err != nil {
			return fmt.Errorf("read %s: %w", cmd.file, err)
		}
		sess.SetCode(tui.NormalizeNewlines(string(data)))
	}

	log.Info().Str("endpoint", client.Endpoint()).Msg("starting editor")

	model := tui.New(ctx, sess, renderer, tui.Options{Endpoint: client.Endpoint()})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
