package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/codereview/internal/render"
	"github.com/hay-kot/codereview/internal/reviewclient"
	"github.com/hay-kot/codereview/internal/session"
	"github.com/hay-kot/codereview/pkg/iojson"
)

type ReviewCmd struct {
	flags   *Flags
	plain   bool
	json    bool
	request iojson.FileReader[reviewclient.Request]

	// stdin is read for the "-" argument. Nil means os.Stdin.
	stdin io.Reader
}

// reviewOutput is the --json result.
type reviewOutput struct {
	Endpoint string `json:"endpoint"`
	Review   string `json:"review"`
}

// NewReviewCmd creates a new review command
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Request a review of a file without opening the editor",
		UsageText: "codereview review [options] [file|-]",
		Description: `Sends the file (or stdin when the argument is "-") to the review endpoint
and prints the rendered review.

Output is styled when stdout is a terminal. Use --plain to print the review
text exactly as received, or --json for a machine readable result.
--request reads a JSON body of the form {"code": "..."} instead of a source file.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print the review without styling",
				Destination: &cmd.plain,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the result as JSON",
				Destination: &cmd.json,
			},
			cmd.request.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	code, err := cmd.readCode(c)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	client := reviewclient.New(reviewclient.Config{Endpoint: cmd.flags.EndpointOrConfig()})

	resp := client.Submit(ctx, code)
	if !resp.OK() {
		if cmd.json {
			_ = iojson.WriteError(session.FetchErrorText, map[string]any{
				"endpoint": client.Endpoint(),
				"error":    resp.Err.Error(),
			})
			return cli.Exit("", 1)
		}
		return cli.Exit(fmt.Sprintf("%s (%v)", session.FetchErrorText, resp.Err), 1)
	}

	if cmd.json {
		return iojson.WriteWith(out, c.Root().ErrWriter, reviewOutput{
			Endpoint: client.Endpoint(),
			Review:   resp.Text,
		})
	}

	opts := render.Options{Plain: cmd.plain || !isTerminal(out)}
	if w, ok := terminalWidth(out); ok {
		opts.Width = w
	}

	_, err = fmt.Fprintln(out, render.New(opts).RenderReview(resp.Text))
	return err
}

// readCode returns the code to review from --request, a file argument, or stdin.
func (cmd *ReviewCmd) readCode(c *cli.Command) (string, error) {
	if cmd.request.IsSet() {
		req, err := cmd.request.Read()
		if err != nil {
			return "", fmt.Errorf("read request: %w", err)
		}
		return req.Code, nil
	}

	if c.Args().Len() > 1 {
		return "", fmt.Errorf("expected at most one file argument, got %d", c.Args().Len())
	}

	path := c.Args().First()
	if path == "" || path == "-" {
		stdin := cmd.stdin
		if stdin == nil {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return "", fmt.Errorf("no input provided; pass a file or pipe code on stdin")
			}
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}
