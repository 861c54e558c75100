package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/codereview/internal/provider"
	"github.com/hay-kot/codereview/internal/server"
	"github.com/hay-kot/codereview/pkg/profiler"
)

type ServeCmd struct {
	flags    *Flags
	addr     string
	provider string
	model    string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the review HTTP server",
		UsageText: "codereview serve [options]",
		Description: `Starts the review service. POST /ai/get-review with {"code": "..."} to
receive a markdown review from the configured provider. GET / answers with a
fixed liveness message.

The listen address comes from --addr, then $PORT, then server.addr in the
config file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (e.g. :3000)",
				Sources:     cli.EnvVars("CODEREVIEW_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.StringFlag{
				Name:        "provider",
				Aliases:     []string{"p"},
				Usage:       "override provider.name from the config file",
				Destination: &cmd.provider,
			},
			&cli.StringFlag{
				Name:        "model",
				Aliases:     []string{"m"},
				Usage:       "override provider.model from the config file",
				Destination: &cmd.model,
			},
			&cli.IntFlag{
				Name:        "profiler-port",
				Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
				Sources:     cli.EnvVars("CODEREVIEW_PROFILER_PORT"),
				Destination: &cmd.flags.ProfilerPort,
			},
		},
		Action: cmd.run,
	})

	return app
}

// listenAddr resolves the address from flag, $PORT and config, in that order.
func (cmd *ServeCmd) listenAddr() string {
	if cmd.addr != "" {
		return cmd.addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return cmd.flags.Config.Server.Addr
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	provCfg := cmd.flags.Config.Provider
	if cmd.provider != "" {
		provCfg.Name = cmd.provider
	}
	if cmd.model != "" {
		provCfg.Model = cmd.model
	}

	reviewer, err := provider.New(provCfg)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	srvCfg := cmd.flags.Config.Server
	srvCfg.Addr = cmd.listenAddr()

	return server.New(srvCfg, reviewer).ListenAndServe(ctx)
}
