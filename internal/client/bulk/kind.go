package bulk

import "fmt"

// Kind is a bulk moderation action.
type Kind int

const (
	KindBlock Kind = iota + 1
	KindUnblock
	KindDelete
	KindDeleteUnverified
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindUnblock:
		return "unblock"
	case KindDelete:
		return "delete"
	case KindDeleteUnverified:
		return "delete unverified"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// NeedsSelection reports whether k acts on selected ids.
func (k Kind) NeedsSelection() bool {
	return k != KindDeleteUnverified
}

func (k Kind) successMessage(count int) string {
	switch k {
	case KindBlock:
		return fmt.Sprintf("%d user(s) blocked successfully", count)
	case KindUnblock:
		return fmt.Sprintf("%d user(s) unblocked successfully", count)
	case KindDelete:
		return fmt.Sprintf("%d user(s) deleted successfully", count)
	default:
		return fmt.Sprintf("%d unverified user(s) deleted successfully", count)
	}
}

func (k Kind) failureMessage() string {
	return fmt.Sprintf("Failed to %s users", k)
}

// Intent is one requested action. It lives only for the duration of a run.
// TargetIDs is empty for KindDeleteUnverified, which acts on every
// unverified account.
type Intent struct {
	Kind      Kind
	TargetIDs []int64
}

// Severity tells the confirmer how to present the prompt.
type Severity int

const (
	SeverityPrimary Severity = iota
	SeverityWarning
	SeverityDanger
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityDanger:
		return "danger"
	default:
		return "primary"
	}
}

// Confirmation is the prompt shown before an action is executed.
type Confirmation struct {
	Title       string
	Message     string
	ConfirmText string
	Severity    Severity
}

// ConfirmationFor builds the prompt for in.
func ConfirmationFor(in Intent) Confirmation {
	n := len(in.TargetIDs)
	switch in.Kind {
	case KindBlock:
		return Confirmation{
			Title:       "Block Users",
			Message:     fmt.Sprintf("Are you sure you want to block %d selected user(s)?", n),
			ConfirmText: "Block",
			Severity:    SeverityWarning,
		}
	case KindUnblock:
		return Confirmation{
			Title:       "Unblock Users",
			Message:     fmt.Sprintf("Are you sure you want to unblock %d selected user(s)?", n),
			ConfirmText: "Unblock",
			Severity:    SeverityPrimary,
		}
	case KindDelete:
		return Confirmation{
			Title:       "Delete Users",
			Message:     fmt.Sprintf("Are you sure you want to delete %d selected user(s)? This action cannot be undone.", n),
			ConfirmText: "Delete",
			Severity:    SeverityDanger,
		}
	default:
		return Confirmation{
			Title:       "Delete Unverified Users",
			Message:     "Are you sure you want to delete ALL unverified users? This action cannot be undone.",
			ConfirmText: "Delete All Unverified",
			Severity:    SeverityDanger,
		}
	}
}
