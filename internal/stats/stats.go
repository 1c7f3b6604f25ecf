// Package stats derives the admin dashboard counters from listings and
// messages.
package stats

import (
	"time"

	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/message"
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalListings    int `json:"totalListings"`
	PendingListings  int `json:"pendingListings"`
	ApprovedListings int `json:"approvedListings"`
	RejectedListings int `json:"rejectedListings"`
	TotalMessages    int `json:"totalMessages"`
	NewMessages      int `json:"newMessages"`
	ReadMessages     int `json:"readMessages"`
	RepliedMessages  int `json:"repliedMessages"`
	ListingsThisWeek int `json:"listingsThisWeek"`
	MessagesThisWeek int `json:"messagesThisWeek"`
}

const dateLayout = "2006-01-02"

// Compute counts listings and messages by status. A record counts toward
// "this week" when its local calendar date falls within the seven days
// ending on now's date.
func Compute(listings []*listing.Listing, messages []*message.Message, now time.Time) Stats {
	weekStart := now.AddDate(0, 0, -6).Format(dateLayout)
	today := now.Format(dateLayout)
	inWeek := func(t time.Time) bool {
		d := t.In(now.Location()).Format(dateLayout)
		return d >= weekStart && d <= today
	}

	var s Stats
	for _, l := range listings {
		s.TotalListings++
		switch l.ReviewStatus {
		case listing.StatusPending:
			s.PendingListings++
		case listing.StatusApproved:
			s.ApprovedListings++
		case listing.StatusRejected:
			s.RejectedListings++
		}
		if inWeek(l.CreatedAt) {
			s.ListingsThisWeek++
		}
	}

	for _, m := range messages {
		s.TotalMessages++
		switch m.Status {
		case message.StatusNew:
			s.NewMessages++
		case message.StatusRead:
			s.ReadMessages++
		case message.StatusReplied:
			s.RepliedMessages++
		}
		if inWeek(m.CreatedAt) {
			s.MessagesThisWeek++
		}
	}

	return s
}
