package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	// Local overrides for GITHUB_CLIENT_ID and friends.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "native-hub",
		Short: "GitHub repository browser",
		Long: `A desktop-style GitHub client for the terminal. Browse your
repositories, read files, and work with issues and pull requests
without leaving the shell.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, args, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add browse flags to root command so `native-hub` and
	// `native-hub browse` work identically
	addBrowseFlags(rootCmd, opts)

	rootCmd.AddCommand(NewCmdBrowse(opts))
	rootCmd.AddCommand(NewCmdRepos(opts))
	rootCmd.AddCommand(NewCmdLogin(opts))
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
