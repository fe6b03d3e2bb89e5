package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/rosterctl/internal/client/models"
)

const createdLayout = "2006-01-02 15:04"

// relativeTime renders a last-login time for the roster table.
func relativeTime(t *time.Time, now time.Time) string {
	if t == nil {
		return "Never"
	}
	d := now.Sub(*t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Local().Format(createdLayout)
	}
}

func renderUsers(w io.Writer, users []models.Identity, isSelected func(int64) bool, now time.Time) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, "No users found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tEMAIL\tSTATUS\tLAST LOGIN\tCREATED")
	for _, u := range users {
		mark := "[ ]"
		if isSelected(u.ID) {
			mark = "[x]"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			mark, u.ID, u.Name, u.Email, u.Status,
			relativeTime(u.LastLogin, now), u.CreatedAt.Local().Format(createdLayout))
	}
	return tw.Flush()
}

func selectionLine(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d user(s) selected", n)
}
