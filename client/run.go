package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gammadia/lmprun/client/log"
	"github.com/gammadia/lmprun/client/ui"
	"github.com/gammadia/lmprun/launcher"
	"github.com/gammadia/lmprun/runfile"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// runner starts the processes of launched targets, nil for the real ones
var runner launcher.Runner

var runCmd = &cobra.Command{
	Use:   "run SCRIPT",
	Short: "Runs a LAMMPS input script on a target",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		rf, err := readRunfile(cmd)
		if err != nil {
			return err
		}

		name, err := targetName(rf, lo.Must(cmd.Flags().GetString("target")))
		if err != nil {
			return err
		}

		variables, err := launcher.ParseAssignments(lo.Must(cmd.Flags().GetStringArray("var")))
		if err != nil {
			return fmt.Errorf("invalid --var: %w", err)
		}
		variables = launcher.Merge(rf.Variables, variables)

		options, err := launcher.ParseAssignments(lo.Must(cmd.Flags().GetStringArray("option")))
		if err != nil {
			return fmt.Errorf("invalid --option: %w", err)
		}

		t, err := rf.Target(name)
		if err != nil {
			return err
		}
		unique := lo.Must(cmd.Flags().GetBool("unique-jobscript"))
		if unique && !t.IsSlurm() {
			log.Warn("--unique-jobscript has no effect on local targets", "target", name)
		}

		target, err := rf.Build(name, runfile.BuildOptions{
			Runner:          runner,
			Logger:          log.Base,
			UniqueJobscript: unique,
		})
		if err != nil {
			return err
		}
		if len(options) > 0 {
			target.Configure(options)
		}

		if lo.Must(cmd.Flags().GetBool("dry-run")) {
			previewer, ok := target.(launcher.Previewer)
			if !ok {
				return fmt.Errorf("target '%s' cannot be previewed", name)
			}
			cmd.Println(ui.SectionHeaderColor.Sprintf("  %s  ", name))
			return previewer.Preview(cmd.OutOrStdout(), args[0], variables)
		}

		log.Info("Launching", "target", name, "type", t.Type, "script", args[0])
		log.Debug("LAMMPS variables", "variables", variables)

		if !t.IsSlurm() {
			// LAMMPS output goes straight to the terminal
			return target.Launch(cmd.Context(), args[0], variables)
		}

		spinner := ui.NewSpinner("Submitting job script")
		if err := target.Launch(cmd.Context(), args[0], variables); err != nil {
			spinner.Fail()
			return err
		}
		spinner.Success()

		cmd.Printf(color.HiGreenString("Submitted '%s' to '%s'\n"), args[0], name)
		return nil
	},
}

// targetName picks the target to launch on, defaulting to the only one.
func targetName(rf *runfile.Runfile, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if names := rf.Names(); len(names) == 1 {
		return names[0], nil
	}
	return "", fmt.Errorf("runfile defines several targets, choose one with --target: %v", rf.Names())
}

func init() {
	runCmd.Flags().StringP("target", "t", "", "target to launch on (default to the only target of the runfile)")
	runCmd.Flags().StringArray("var", nil, "LAMMPS variable, passed as -var NAME VALUE (NAME=VALUE)")
	runCmd.Flags().StringArrayP("option", "o", nil, "LAMMPS command-line option (FLAG=VALUE, e.g. -sf=omp)")
	runCmd.Flags().BoolP("dry-run", "n", false, "print what would be executed or submitted, without doing it")
	runCmd.Flags().Bool("unique-jobscript", false, "write generated job scripts to a uniquely named file")

	lo.Must0(runCmd.RegisterFlagCompletionFunc("target", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		rf, err := readRunfile(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return rf.Names(), cobra.ShellCompDirectiveNoFileComp
	}))
}
