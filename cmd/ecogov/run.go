package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ecogov/config"
	"ecogov/governor"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the governor until interrupted",
		Long: `Throttles all processes on startup (unless disabled), then follows foreground
changes and new processes. On exit every process is recovered to its default
power mode. With both listeners disabled the startup sweep is all that runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := governor.NewLogger("ecogov")

			path := opts.path()
			if !config.Exists(path) {
				log.Infoln("writing default config to", path)
				if err := config.WriteFile(path, config.Default()); err != nil {
					log.Warn("failed to write default config: ", err)
				}
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}

			release, err := prepare(cfg, log)
			if err != nil {
				return err
			}
			defer release()

			platform, err := opts.platform(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return governor.New(cfg, platform, log).Run(ctx)
		},
	}
}
