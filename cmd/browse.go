package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/J-x-Z/native-hub/config"
	"github.com/J-x-Z/native-hub/internal/appctx"
	"github.com/J-x-Z/native-hub/internal/auth"
	"github.com/J-x-Z/native-hub/internal/bridge"
	"github.com/J-x-Z/native-hub/internal/credstore"
	"github.com/J-x-Z/native-hub/internal/engine"
	"github.com/J-x-Z/native-hub/internal/log"
	"github.com/J-x-Z/native-hub/internal/tui"
)

// NewCmdBrowse creates the browse command.
func NewCmdBrowse(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive repository browser (same as root native-hub)",
		Long: `Starts the full-screen browser. Navigate your repositories, read
files, and triage issues and pull requests with the keyboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, args, opts)
		},
	}
	addBrowseFlags(cmd, opts)
	return cmd
}

// addBrowseFlags registers the browse flags on a command.
func addBrowseFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", "", "Fetch strategy (rest, cli)")
	cmd.Flags().StringVar(&opts.CancelScope, "cancel-scope", "", "What a cancel aborts (login, latest)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Config file path")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
}

func runBrowse(cmd *cobra.Command, _ []string, opts *Options) error {
	if !tui.ShouldUseTUI() {
		return fmt.Errorf("browse needs an interactive terminal; use `native-hub repos` for scripted output")
	}

	// The alt screen owns stdout and stderr; logs would corrupt it.
	if opts.Verbosity > 0 {
		log.Initialize(opts.Verbosity, os.Stderr)
	} else {
		log.Initialize(0, io.Discard)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	shared := appctx.New()
	store := credstore.Open()
	ctrl := auth.New(shared, store).WithEndpoints(auth.Endpoints{
		DeviceCodeURL: cfg.DeviceCodeURL,
		TokenURL:      cfg.TokenURL,
		ClientID:      cfg.ClientID,
	})

	// Seed the shared context before the UI starts so the first fetch
	// works without an explicit login when a credential already exists.
	if token, err := ctrl.ResolveToken(cmd.Context()); err == nil {
		shared.SeedToken(token)
	} else {
		log.Debug("no stored credential", "error", err)
	}

	eng, err := buildEngine(cfg, shared, opts)
	if err != nil {
		return err
	}

	scope := cfg.CancelScope
	if opts.CancelScope != "" {
		scope = opts.CancelScope
	}
	if scope != string(bridge.CancelLogin) && scope != string(bridge.CancelLatest) {
		return fmt.Errorf("invalid cancel scope %q (use login or latest)", scope)
	}

	b := bridge.New(ctrl, eng, bridge.CancelScope(scope))
	go b.Run()
	defer b.Close()

	return tui.Run(b)
}

// loadConfig loads the config file, honoring an explicit --config path.
func loadConfig(opts *Options) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.LoadFrom(opts.ConfigPath)
	}
	return config.Load()
}

// buildEngine picks the fetch strategy once; the bridge never switches
// engines mid-session.
func buildEngine(cfg *config.Config, shared *appctx.Context, opts *Options) (engine.Engine, error) {
	choice := cfg.Engine
	if opts.Engine != "" {
		choice = opts.Engine
	}

	switch choice {
	case "cli":
		return engine.NewCliEngine(), nil
	case "rest":
		return engine.NewSharedRest(shared, cfg.APIBaseURL), nil
	default:
		return nil, fmt.Errorf("invalid engine %q (use rest or cli)", choice)
	}
}
