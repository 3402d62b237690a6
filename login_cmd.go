package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dvdcodez/SeaSync/internal/secretstore"
	"github.com/dvdcodez/SeaSync/internal/seafile"
)

func newLoginCmd() *cobra.Command {
	var server, user string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a Seafile server",
		Long: `Authenticate with a Seafile-compatible server and store the resulting
bearer token in the configured secret store.

Prompts for the account password on stderr; the password itself is never
written to disk or passed on the command line.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, server, user)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Seafile server base URL")
	cmd.Flags().StringVar(&user, "user", "", "account username")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved account",
		Long: `Remove the saved account token from the secret store.

With --purge, the local sync state database is also deleted, forcing a
full re-sync on the next login rather than resuming from the last baseline.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogout(cmd, purge)
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "also delete the local sync state database")

	return cmd
}

func runLogin(cmd *cobra.Command, server, user string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	if server == "" {
		return fmt.Errorf("--server is required")
	}

	if user == "" {
		return fmt.Errorf("--user is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	client := seafile.NewClient(server, nil, cc.Logger)
	defer client.Close()

	token, err := seafile.Login(ctx, client, user, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	acct := &secretstore.Account{ServerURL: server, Username: user, Token: token}
	if err := secretstore.SaveAccount(cc.Secrets, acct); err != nil {
		return fmt.Errorf("saving account: %w", err)
	}

	fmt.Printf("Signed in as %s on %s.\n", user, server)

	return nil
}

func runLogout(cmd *cobra.Command, purge bool) error {
	cc := mustCLIContext(cmd.Context())

	acct, err := secretstore.LoadAccount(cc.Secrets)
	if err != nil {
		return fmt.Errorf("loading account: %w", err)
	}

	if acct == nil {
		fmt.Println("No account is currently signed in.")
		return nil
	}

	if err := secretstore.DeleteAccount(cc.Secrets); err != nil {
		return fmt.Errorf("removing account: %w", err)
	}

	fmt.Printf("Signed out of %s on %s.\n", acct.Username, acct.ServerURL)

	if purge {
		dbPath := cc.Cfg.Sync.DatabasePath
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("purging state database: %w", err)
		}

		fmt.Println("Local sync state database removed; the next sync will start fresh.")
	} else {
		fmt.Println("Local sync state kept — run 'seasync login' again to resume without a full re-sync.")
	}

	return nil
}

// promptPassword reads a password from the terminal with input hidden,
// refusing to run when stdin is not a real terminal (e.g. piped input from
// a script, where a hidden prompt would silently consume the wrong bytes).
func promptPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("login requires an interactive terminal to prompt for a password")
	}

	fmt.Fprint(os.Stderr, prompt)

	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return string(data), nil
}
