package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"voice-notes/client"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the session token locally",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := newClientApp(cmd)
		if err != nil {
			return err
		}

		in := bufio.NewReader(cmd.InOrStdin())
		email := loginEmail
		if email == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
			if email, err = readLine(in); err != nil {
				return err
			}
		}
		password, err := readPassword(cmd, in, "Password: ")
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		if _, err := app.api.Login(ctx, email, password); err != nil {
			app.notify.Error(client.UserMessage(err, "Login failed"))
			return errReported
		}
		app.notify.Success("Logged in as " + email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the local session token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := newClientApp(cmd)
		if err != nil {
			return err
		}
		if err := app.api.Session().Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		app.notify.Info("Logged out")
		return nil
	},
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword hides input on a terminal and falls back to a plain line
// otherwise, so scripts can pipe the password in.
func readPassword(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return readLine(in)
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
