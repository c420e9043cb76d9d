package cli

import (
	"fmt"
	"strings"

	"github.com/aryankumar/tempbench/internal/catalog"
	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command for generating shell completions
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for tempbench.

Besides subcommands and flags, the scripts complete capital names for
"tempbench fetch" and for the --locations flag.

Bash:
  $ source <(tempbench completion bash)

  # Persist it (Linux):
  $ tempbench completion bash > /etc/bash_completion.d/tempbench

Zsh:
  # Requires compinit in ~/.zshrc
  $ tempbench completion zsh > "${fpath[1]}/_tempbench"

Fish:
  $ tempbench completion fish > ~/.config/fish/completions/tempbench.fish

PowerShell:
  PS> tempbench completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// No config needed to print a script
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(cmd, args[0])
		},
	}

	return cmd
}

// runCompletion writes the script for shell to the command's output
func runCompletion(cmd *cobra.Command, shell string) error {
	root, w := cmd.Root(), cmd.OutOrStdout()
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported shell type %q", shell)
	}
}

// completeLocation completes a single capital name, case-insensitively
func completeLocation(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return matchLocations("", toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeLocationList completes the last element of a comma-separated
// --locations value, keeping the names already typed
func completeLocationList(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, partial = toComplete[:i+1], toComplete[i+1:]
	}
	return matchLocations(prefix, partial), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func matchLocations(prefix, partial string) []string {
	partial = strings.ToLower(partial)

	var out []string
	for _, name := range catalog.Names(catalog.Capitals()) {
		if strings.HasPrefix(strings.ToLower(name), partial) {
			out = append(out, prefix+name)
		}
	}
	return out
}
