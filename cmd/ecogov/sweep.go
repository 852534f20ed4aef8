package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"ecogov/config"
	"ecogov/governor"
	"ecogov/process"
)

// newSweepCmd builds the one-off throttle, boost and recover commands
func newSweepCmd(opts *options, action governor.Action) *cobra.Command {
	var (
		all  bool
		name string
	)

	cmd := &cobra.Command{
		Use:   action.String() + " [pid]",
		Short: fmt.Sprintf("Apply %s once to a process tree or to all processes", action),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selectors := len(args)
			if all {
				selectors++
			}
			if name != "" {
				selectors++
			}
			if selectors != 1 {
				return fmt.Errorf("%s needs exactly one of a pid, --name or --all", action)
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			platform, err := opts.platform(cfg)
			if err != nil {
				return err
			}
			fold := config.FoldCase(runtime.GOOS)

			var targets []governor.Target
			switch {
			case all:
				targets = append(targets, governor.AllProcesses())
			case name != "":
				snap, err := process.TakeSnapshot(cmd.Context(), platform.Enumerator)
				if err != nil {
					return err
				}
				pids := snap.FindByName(name, fold)
				if len(pids) == 0 {
					return fmt.Errorf("%q: %w", name, process.ErrProcessNotFound)
				}
				for _, pid := range pids {
					targets = append(targets, governor.TreeOf(pid))
				}
			default:
				pid, err := parsePID(args[0])
				if err != nil {
					return err
				}
				targets = append(targets, governor.TreeOf(pid))
			}

			applier := governor.NewApplier(
				platform.Enumerator,
				platform.PowerSetter,
				governor.NewBypassPolicy(cfg.Whitelist, fold),
				governor.NopLogger(),
				process.WithBoundary(cfg.TreeBoundary...),
				process.WithFoldCase(fold),
			)

			for _, target := range targets {
				res, err := applier.Apply(cmd.Context(), action, target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d toggled, %d failed, %d bypassed\n",
					action, target, res.Attempted-res.Failed, res.Failed, res.Bypassed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "target every process")
	cmd.Flags().StringVar(&name, "name", "", "target the tree of every process with this image name")
	return cmd
}
