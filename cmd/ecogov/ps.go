package main

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ecogov/config"
	"ecogov/governor"
	"ecogov/process"
	"ecogov/table"
)

const (
	policyBypass   = "bypass"
	policyBoundary = "boundary"
	policyTree     = "tree"
)

func newPsCmd(opts *options) *cobra.Command {
	var (
		root    uint32
		filter  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "ps",
		Short: "List processes with the policy the governor applies to them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			fold := config.FoldCase(runtime.GOOS)
			bypass := governor.NewBypassPolicy(cfg.Whitelist, fold)
			boundary := governor.NewNameSet(cfg.TreeBoundary, fold)
			tree := process.NewProcTree(snap, process.WithBoundary(cfg.TreeBoundary...), process.WithFoldCase(fold))

			policy := table.Column{Header: "POLICY"}
			if !noColor && isTerminal(cmd.OutOrStdout()) {
				policy.Format = policyColor
			}
			out := table.New(
				table.Column{Header: "PID", Right: true},
				table.Column{Header: "PPID", Right: true},
				table.Column{Header: "NAME"},
				policy,
			)

			members := make(map[process.ProcessID]struct{})
			if root != 0 {
				for _, p := range tree.Members(process.ProcessID(root)) {
					members[p.PID] = struct{}{}
				}
			}

			for _, p := range snap.Processes() {
				if filter != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter)) {
					continue
				}

				var label string
				switch {
				case bypass.Bypassed(p.Name):
					label = policyBypass
				case boundary.Contains(p.Name):
					label = policyBoundary
				default:
					if _, ok := members[p.PID]; ok {
						label = policyTree
					}
				}
				out.Add(p.PID.ToString(), p.PPID.ToString(), p.Name, label)
			}

			return out.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().Uint32Var(&root, "root", 0, "mark the members of this process tree")
	cmd.Flags().StringVar(&filter, "filter", "", "only list names containing this text")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors even on a terminal")
	return cmd
}

func policyColor(label string) string {
	switch label {
	case policyBypass:
		return table.Gray(label)
	case policyBoundary:
		return table.Yellow(label)
	case policyTree:
		return table.Green(label)
	}
	return label
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
