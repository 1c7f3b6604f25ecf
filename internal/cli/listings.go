package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty-site/internal/client"
	"github.com/evcraddock/realty-site/internal/listing"
)

func newListingsCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "List property listings",
		Long:  "List listings from the admin API, optionally filtered by review status (pending, approved, rejected).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListings(status, limit)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "review status to filter by")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of listings")

	return cmd
}

func runListings(status string, limit int) error {
	if status != "" {
		if _, err := listing.ParseReviewStatus(status); err != nil {
			return err
		}
	}

	listings, err := newAPIClient().ListListings(client.ListOptions{Status: status, Limit: limit})
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(listings)
	}
	return printListingTable(listings)
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show listing details",
		Long:  "Show full details for a listing, whatever its review status.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("listing", args[0])
			if err != nil {
				return err
			}

			l, err := newAPIClient().GetListing(id)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(l)
			}
			printListingSummary(l)
			return nil
		},
	}
}

func newApproveCmd() *cobra.Command {
	return newReviewCmd("approve", "Approve a pending listing", listing.StatusApproved)
}

func newRejectCmd() *cobra.Command {
	return newReviewCmd("reject", "Reject a listing", listing.StatusRejected)
}

func newReviewCmd(use, short string, status listing.ReviewStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("listing", args[0])
			if err != nil {
				return err
			}

			l, err := newAPIClient().SetReviewStatus(id, status)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(l)
			}
			fmt.Printf("Listing #%d is now %s.\n", l.ID, l.ReviewStatus)
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a listing",
		Long:  "Permanently delete a listing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("listing", args[0])
			if err != nil {
				return err
			}

			if err := newAPIClient().DeleteListing(id); err != nil {
				return err
			}
			if isJSON() {
				return printJSON(map[string]any{"id": id, "removed": true})
			}
			fmt.Printf("Listing #%d removed.\n", id)
			return nil
		},
	}
}
