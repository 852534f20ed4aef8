package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ecogov/process"
)

func newTreeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <pid>",
		Short: "Print the process tree rooted at pid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			platform, err := opts.platform(cfg)
			if err != nil {
				return err
			}

			snap, err := process.TakeSnapshot(cmd.Context(), platform.Enumerator)
			if err != nil {
				return err
			}
			tree, err := snap.Tree(pid)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			tree.Walk(func(n *process.ProcessTreeNode, depth int) {
				fmt.Fprintf(w, "%s%d %s\n", strings.Repeat("  ", depth), n.Process.PID, n.Process.Name)
			})
			return nil
		},
	}
}

func parsePID(s string) (process.ProcessID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid pid %q", s)
	}
	return process.ProcessID(v), nil
}
