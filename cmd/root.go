package cmd

import (
	"errors"
	"fmt"
	"os"

	"voice-notes/client"
	"voice-notes/configs"
	"voice-notes/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

// errReported means the failure was already shown through the notifier.
var errReported = errors.New("reported")

var (
	v       *viper.Viper
	log     *slog.Logger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "voice-notes",
	Short: "Voice notes server and command line client",
	Long: `voice-notes keeps text and dictated notes per user.

Run "voice-notes serve" for the HTTP API, then use the other commands
against it after "voice-notes login".`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	v = configs.NewViper()
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("notes_server", flags.Lookup("server")); err != nil {
		return err
	}
	if err := v.BindPFlag("notes_token_file", flags.Lookup("token-file")); err != nil {
		return err
	}

	log = utils.DiscardLogger()
	if verbose {
		log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "notes server URL (default $NOTES_SERVER or http://localhost:4000)")
	rootCmd.PersistentFlags().String("token-file", "", "session token location (default $NOTES_TOKEN_FILE or the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log client activity to stderr")
}

// clientApp is what every note command works with.
type clientApp struct {
	api    *client.NotesClient
	notes  *client.Collection
	notify client.Notifier
}

func newClientApp(cmd *cobra.Command) (*clientApp, error) {
	cfg, err := configs.LoadClient(v)
	if err != nil {
		return nil, err
	}
	path := cfg.TokenFile
	if path == "" {
		if path, err = client.DefaultTokenPath(); err != nil {
			return nil, fmt.Errorf("locate token file: %w", err)
		}
	}

	session := client.NewSession(client.FileTokenStore{Path: path})
	if err := session.Restore(); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	notify := client.NewConsoleNotifier(cmd.ErrOrStderr())
	api := client.NewNotesClient(cfg.ServerURL, session, nil)
	return &clientApp{
		api:    api,
		notes:  client.NewCollection(api, notify, log),
		notify: notify,
	}, nil
}

// requireLogin fails early so nothing typed or dictated is lost.
func (a *clientApp) requireLogin() error {
	if !a.api.Session().Authenticated() {
		return errors.New(`not logged in, run "voice-notes login" first`)
	}
	return nil
}

// refresh loads the list, turning a rejected session into a login hint.
func (a *clientApp) refresh(cmd *cobra.Command) error {
	err := a.notes.Refresh(cmd.Context())
	switch {
	case err == nil:
		return nil
	case client.IsUnauthorized(err), errors.Is(err, client.ErrNotAuthenticated):
		return errors.New(`session expired or missing, run "voice-notes login"`)
	}
	return errReported
}

func reported(err error) error {
	if err != nil {
		return errReported
	}
	return nil
}
