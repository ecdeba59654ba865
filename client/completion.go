package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:       "completion bash|zsh|fish|powershell",
	Short:     "Generate a shell completion script",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return lmprunCmd.GenBashCompletionV2(w, true)
		case "zsh":
			return lmprunCmd.GenZshCompletion(w)
		case "fish":
			return lmprunCmd.GenFishCompletion(w, true)
		case "powershell":
			return lmprunCmd.GenPowerShellCompletionWithDesc(w)
		}
		return fmt.Errorf("unsupported shell '%s'", args[0])
	},
}
