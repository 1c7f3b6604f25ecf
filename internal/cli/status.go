package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty-site/internal/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the server and checks if the stored session is still valid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	c := newAPIClient()
	fmt.Printf("Server:  %s\n", getServerURL())

	if err := c.Health(); err != nil {
		fmt.Printf("Status:  ✗ cannot reach server (%v)\n", err)
		return nil
	}

	if c.Session() == "" {
		fmt.Println("Session: none")
		fmt.Println("\nRun 'realty login' to authenticate.")
		return nil
	}

	u, err := c.CurrentUser()
	switch {
	case err == nil:
		fmt.Printf("Status:  ✓ connected as %s (%s)\n", u.Username, u.Role)
	case client.IsUnauthorized(err):
		fmt.Println("Status:  ✗ session expired")
		fmt.Println("\nRun 'realty login' to re-authenticate.")
	default:
		fmt.Printf("Status:  ✗ unexpected response (%v)\n", err)
	}

	return nil
}
