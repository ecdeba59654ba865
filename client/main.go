package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/gammadia/lmprun/client/flags"
	"github.com/gammadia/lmprun/client/log"
	"github.com/gammadia/lmprun/runfile"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Versioning information set at build time
var version, commit = "dev", "n/a"

var lmprunCmd = &cobra.Command{
	Use:   "lmprun",
	Short: "lmprun launches LAMMPS simulations locally or on Slurm clusters.",

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(cmd.ErrOrStderr())
	},
}

func init() {
	lmprunCmd.AddCommand(completionCmd)
	lmprunCmd.AddCommand(runCmd)
	lmprunCmd.AddCommand(targetsCmd)
	lmprunCmd.AddCommand(versionCmd)

	lmprunCmd.PersistentFlags().StringArrayP("param", "p", nil, "runfile template parameters (KEY=VALUE)")
	lo.Must0(flags.Bind(lmprunCmd.PersistentFlags()))
}

// readRunfile loads the runfile selected by the global flags.
func readRunfile(cmd *cobra.Command) (*runfile.Runfile, error) {
	file := viper.GetString(flags.Runfile)
	params := lo.SliceToMap(lo.Must(cmd.Flags().GetStringArray("param")), func(item string) (key, value string) {
		key, value, _ = strings.Cut(item, "=")
		return
	})

	rf, err := runfile.Read(file, runfile.ReadOptions{Params: params})
	if err != nil {
		if e, ok := err.(runfile.UnmarshalError); ok {
			log.Debug("Evaluated runfile", "source", e.Source)
		}
		return nil, fmt.Errorf("failed to read runfile '%s': %w", file, err)
	}
	return rf, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lmprunCmd.SetOut(os.Stdout)
	if err := lmprunCmd.ExecuteContext(ctx); err != nil {
		lo.Must(fmt.Fprintln(os.Stderr, color.HiRedString(fmt.Sprint(err))))
		os.Exit(1)
	}
}
