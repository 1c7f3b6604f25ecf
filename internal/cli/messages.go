package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty-site/internal/message"
)

func newMessagesCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List contact messages",
		Long:  "List messages sent through the contact form, optionally filtered by status (new, read, replied).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				if _, err := message.ParseStatus(status); err != nil {
					return err
				}
			}

			msgs, err := newAPIClient().ListMessages(status)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(msgs)
			}
			return printMessageTable(msgs)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "status to filter by")

	return cmd
}

func newMarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <id> <status>",
		Short: "Set a message's status",
		Long:  "Mark a contact message as new, read or replied.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("message", args[0])
			if err != nil {
				return err
			}
			status, err := message.ParseStatus(args[1])
			if err != nil {
				return err
			}

			m, err := newAPIClient().SetMessageStatus(id, string(status))
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(m)
			}
			fmt.Printf("Message #%d marked %s.\n", m.ID, m.Status)
			return nil
		},
	}
}

func newDeleteMessageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-message <id>",
		Short: "Delete a contact message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("message", args[0])
			if err != nil {
				return err
			}

			if err := newAPIClient().DeleteMessage(id); err != nil {
				return err
			}
			if isJSON() {
				return printJSON(map[string]any{"id": id, "removed": true})
			}
			fmt.Printf("Message #%d deleted.\n", id)
			return nil
		},
	}
}
