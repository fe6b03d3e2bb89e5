package bulk

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rosterctl/internal/client/models"
)

var (
	ErrBusy        = errors.New("another bulk action is in progress")
	ErrUnknownKind = errors.New("unknown bulk action")
)

// RejectionError is a precondition failure found before anything was sent.
// Reason is shown to the operator as is.
type RejectionError struct {
	Kind   Kind
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

func reject(k Kind, format string, args ...any) *RejectionError {
	return &RejectionError{Kind: k, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks an action against the selection and the roster it was
// made from. It returns nil or a *RejectionError.
func Validate(k Kind, selected []int64, lookup func(int64) (models.Identity, bool)) error {
	switch k {
	case KindBlock, KindUnblock, KindDelete:
	case KindDeleteUnverified:
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, k)
	}

	if len(selected) == 0 {
		return reject(k, "Please select users first")
	}

	found, blocked := 0, 0
	for _, id := range selected {
		u, ok := lookup(id)
		if !ok {
			continue
		}
		found++
		if u.IsBlocked() {
			blocked++
		}
	}

	switch k {
	case KindBlock:
		if blocked == len(selected) {
			return reject(k, "All selected users are already blocked")
		}
		if blocked > 0 {
			return reject(k, "%d of the selected users are already blocked", blocked)
		}
	case KindUnblock:
		notBlocked := found - blocked
		if notBlocked == len(selected) {
			return reject(k, "None of the selected users are blocked")
		}
		if notBlocked > 0 {
			return reject(k, "%d of the selected users are not blocked", notBlocked)
		}
	}
	return nil
}
