package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ecogov/config"
	"ecogov/governor"
	"ecogov/process"
)

// platformFactory builds the OS collaborators; replaced in tests
var platformFactory = newPlatform

type options struct {
	configPath string
}

func (o *options) path() string {
	if o.configPath == "" {
		return config.DefaultPath()
	}
	return o.configPath
}

func (o *options) load() (*config.Config, error) {
	return config.Load(o.path())
}

func (o *options) platform(cfg *config.Config) (process.Platform, error) {
	return platformFactory(cfg)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "ecogov",
		Short:         "Foreground aware process power governor",
		Long:          `Boosts the process tree of the foreground window and puts every other process in efficiency mode.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(
		newRunCmd(opts),
		newTreeCmd(opts),
		newPsCmd(opts),
		newSweepCmd(opts, governor.Throttle),
		newSweepCmd(opts, governor.Boost),
		newSweepCmd(opts, governor.Recover),
		newConfigCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
