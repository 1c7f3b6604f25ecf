package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty-site/internal/client"
)

func newLoginCmd() *cobra.Command {
	var server, username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as the site admin",
		Long:  "Signs in to the server with the admin credentials and stores the session cookie for later commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.InOrStdin(), cmd.OutOrStdout(), server, username)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or http://localhost:5000)")
	cmd.Flags().StringVar(&username, "username", "admin", "admin username")

	return cmd
}

func runLogin(in io.Reader, out io.Writer, serverFlag, username string) error {
	serverURL := serverFlag
	if serverURL == "" {
		serverURL = getServerURL()
	}

	fmt.Fprintf(out, "Password for %s: ", username)
	password, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading input: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		return fmt.Errorf("no password provided")
	}

	c := client.New(serverURL, "")
	u, err := c.Login(username, password)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}

	cfg.Session = c.Session()
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(out, "\n✓ Logged in as %s.\n", u.Username)
	return nil
}
