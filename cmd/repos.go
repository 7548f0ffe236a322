package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/J-x-Z/native-hub/internal/engine"
	"github.com/J-x-Z/native-hub/internal/format"
	"github.com/J-x-Z/native-hub/internal/log"
)

// NewCmdRepos creates the repos command. It lists repositories through
// the gh CLI so it works in scripts and CI where no browser session or
// OAuth app is available.
func NewCmdRepos(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List your repositories (headless, via the gh CLI)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepos(cmd, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "Limit number of results")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	return cmd
}

func runRepos(cmd *cobra.Command, opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	eng := engine.NewCliEngine()
	repos, err := eng.ListRepositories(cmd.Context())
	if err != nil {
		return err
	}

	if opts.Limit > 0 && len(repos) > opts.Limit {
		repos = repos[:opts.Limit]
	}

	if len(repos) == 0 {
		fmt.Println("No repositories found.")
		return nil
	}

	name := color.New(color.FgCyan)
	dim := color.New(color.Faint)
	star := color.New(color.FgYellow)

	for _, r := range repos {
		visibility := ""
		if r.Private {
			visibility = dim.Sprint(" private")
		}
		fmt.Printf("%-45s %s%s  %s\n",
			name.Sprint(format.Truncate(r.FullName, 45)),
			star.Sprintf("★%-6s", format.Count(r.Stars)),
			visibility,
			dim.Sprint(format.Truncate(r.Description, 60)))
	}
	return nil
}
