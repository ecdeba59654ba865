package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the targets of the runfile",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		rf, err := readRunfile(cmd)
		if err != nil {
			return err
		}

		for _, name := range rf.Names() {
			t := rf.Targets[name]
			cmd.Printf("%s %s", color.HiCyanString(name), color.HiBlackString(t.Type))
			switch {
			case t.Nodes > 0:
				cmd.Printf(" (%d nodes)", t.Nodes)
			case t.GPUs > 0:
				cmd.Printf(" (%d GPUs)", t.GPUs)
			case t.Procs > 0:
				cmd.Printf(" (%d procs)", t.Procs)
			}
			cmd.Println()
		}
		return nil
	},
}
