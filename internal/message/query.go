package message

import (
	"fmt"
	"strings"
)

const selectColumns = "id, name, email, phone, subject, message, property_id, status, created_at, updated_at"

// where builds the WHERE, ORDER BY and LIMIT tail for List. placeholder
// returns the bind marker for the nth argument.
func (f Filter) where(placeholder func(n int) string) (string, []any) {
	var conditions []string
	var args []any

	if f.Status != "" {
		args = append(args, string(f.Status))
		conditions = append(conditions, "status = "+placeholder(len(args)))
	}
	if f.PropertyID != 0 {
		args = append(args, f.PropertyID)
		conditions = append(conditions, "property_id = "+placeholder(len(args)))
	}

	var sb strings.Builder
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&sb, " LIMIT %s", placeholder(len(args)))
		if f.Offset > 0 {
			args = append(args, f.Offset)
			fmt.Fprintf(&sb, " OFFSET %s", placeholder(len(args)))
		}
	}
	return sb.String(), args
}

func sqlitePlaceholder(int) string { return "?" }

func pgPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }
