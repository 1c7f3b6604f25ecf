// Package cli defines the cobra command tree for the realty site.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty-site/internal/client"
)

var (
	flagFormat string
	flagConfig string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "realty",
		Short:         "Run and manage the realty site",
		Long:          "Serve the realty site API and moderate listings and contact messages from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "server config file (YAML)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newListingsCmd(),
		newShowCmd(),
		newApproveCmd(),
		newRejectCmd(),
		newRemoveCmd(),
		newMessagesCmd(),
		newMarkCmd(),
		newDeleteMessageCmd(),
		newStatsCmd(),
		newVersionCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for the realty site API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getSession())
}

// configFile returns the server config path from --config or REALTY_CONFIG.
func configFile() string {
	if flagConfig != "" {
		return flagConfig
	}
	return os.Getenv("REALTY_CONFIG")
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// parseID parses a positive numeric ID argument.
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", kind, arg)
	}
	return id, nil
}
