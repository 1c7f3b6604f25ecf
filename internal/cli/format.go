package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/message"
	"github.com/evcraddock/realty-site/internal/stats"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printListingSummary prints a single listing in text format.
func printListingSummary(l *listing.Listing) {
	fmt.Printf("Listing #%d: %s\n", l.ID, l.Title)
	fmt.Printf("  Review:   %s\n", l.ReviewStatus)
	fmt.Printf("  Type:     %s (%s)\n", l.PropertyType, l.ListingType)
	fmt.Printf("  Price:    AED %s\n", formatPrice(l.Price))
	fmt.Printf("  Beds:     %d\n", l.Beds)
	fmt.Printf("  Baths:    %d\n", l.Baths)
	if l.Area > 0 {
		fmt.Printf("  Area:     %g sqft\n", l.Area)
	}
	if l.Address != "" {
		fmt.Printf("  Address:  %s\n", l.Address)
	}
	if l.ContactName != "" {
		fmt.Printf("  Contact:  %s <%s> %s\n", l.ContactName, l.ContactEmail, l.ContactPhone)
	}
	fmt.Printf("  Created:  %s\n", l.CreatedAt.Format("2006-01-02 15:04"))
	if l.Description != "" {
		fmt.Printf("\n%s\n", l.Description)
	}
}

// printListingTable prints listings as a formatted table.
func printListingTable(listings []*listing.Listing) error {
	if len(listings) == 0 {
		fmt.Println("No listings found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tTITLE\tTYPE\tPRICE\tBED\tREVIEW"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t-----\t----\t-----\t---\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, l := range listings {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			l.ID, truncate(l.Title, 40), l.PropertyType, formatPrice(l.Price), l.Beds, l.ReviewStatus); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d listings\n", len(listings))
	return nil
}

// printMessageTable prints contact messages as a formatted table.
func printMessageTable(msgs []*message.Message) error {
	if len(msgs) == 0 {
		fmt.Println("No messages found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tFROM\tEMAIL\tSUBJECT\tSTATUS\tRECEIVED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, m := range msgs {
		subject := m.Subject
		if subject == "" {
			subject = truncate(m.Message, 30)
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Name, m.Email, truncate(subject, 30), m.Status, m.CreatedAt.Format("2006-01-02")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d messages\n", len(msgs))
	return nil
}

// printStats prints the dashboard counters.
func printStats(s *stats.Stats) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	rows := []struct {
		label string
		value int
	}{
		{"Listings", s.TotalListings},
		{"  pending", s.PendingListings},
		{"  approved", s.ApprovedListings},
		{"  rejected", s.RejectedListings},
		{"  this week", s.ListingsThisWeek},
		{"Messages", s.TotalMessages},
		{"  new", s.NewMessages},
		{"  read", s.ReadMessages},
		{"  replied", s.RepliedMessages},
		{"  this week", s.MessagesThisWeek},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", r.label, r.value); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}
	return w.Flush()
}

// formatPrice formats a whole-unit amount with thousands separators.
func formatPrice(amount float64) string {
	s := fmt.Sprintf("%.0f", amount)

	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	return strings.Join(parts, ",")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
