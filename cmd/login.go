package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/J-x-Z/native-hub/internal/appctx"
	"github.com/J-x-Z/native-hub/internal/auth"
	"github.com/J-x-Z/native-hub/internal/credstore"
	"github.com/J-x-Z/native-hub/internal/log"
	"github.com/J-x-Z/native-hub/internal/model"
)

// NewCmdLogin creates the login command. It runs the same authentication
// flow as the browser, printing the device code instead of displaying it
// in the UI, and leaves the credential in the store for later sessions.
func NewCmdLogin(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with GitHub and store the credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Config file path")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	return cmd
}

func runLogin(cmd *cobra.Command, opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

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

	if _, err := ctrl.Login(cmd.Context(), consoleNotifier{}); err != nil {
		return err
	}

	fmt.Println("Logged in.")
	return nil
}

// consoleNotifier prints login progress to stdout.
type consoleNotifier struct{}

func (consoleNotifier) Log(line string) {
	fmt.Println(line)
}

func (consoleNotifier) DeviceCode(code model.DeviceCode) {
	bold := color.New(color.Bold, color.FgYellow)
	fmt.Printf("\nOpen %s and enter the code %s\n\n",
		code.VerificationURI, bold.Sprint(code.UserCode))
}
