package bulk

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/rosterctl/internal/client/client"
	"github.com/dmitrijs2005/rosterctl/internal/client/directory"
	"github.com/dmitrijs2005/rosterctl/internal/client/models"
	"github.com/dmitrijs2005/rosterctl/internal/logging"
)

// State is the orchestrator's position in an action attempt.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateAwaitingConfirmation
	StateExecuting
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateAwaitingConfirmation:
		return "awaiting confirmation"
	case StateExecuting:
		return "executing"
	default:
		return "idle"
	}
}

// Outcome is how an attempt ended.
type Outcome int

const (
	OutcomeRejected Outcome = iota + 1
	OutcomeCancelled
	OutcomeFailed
	OutcomeSucceeded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	case OutcomeSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Result describes a finished attempt. Count is the server-reported number
// of affected accounts and is set only on success.
type Result struct {
	Outcome Outcome
	Count   int
}

// Roster is the part of the directory store an action reads and reconciles.
type Roster interface {
	Selected() []int64
	Lookup(id int64) (models.Identity, bool)
	ClearSelection()
	Sync(ctx context.Context, src directory.Source) error
}

// Executor is the subset of the gateway client used by bulk actions.
type Executor interface {
	directory.Source
	BlockUsers(ctx context.Context, ids []int64) (*client.BulkResult, error)
	UnblockUsers(ctx context.Context, ids []int64) (*client.BulkResult, error)
	DeleteUsers(ctx context.Context, ids []int64) (*client.BulkResult, error)
	DeleteUnverifiedUsers(ctx context.Context) (*client.BulkResult, error)
}

// Confirmer asks the operator to approve an action.
type Confirmer interface {
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

// Notifier shows transient success and failure messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Orchestrator struct {
	state     atomic.Int32
	roster    Roster
	exec      Executor
	confirmer Confirmer
	notifier  Notifier
	logger    logging.Logger
}

func NewOrchestrator(roster Roster, exec Executor, confirmer Confirmer, notifier Notifier, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		roster:    roster,
		exec:      exec,
		confirmer: confirmer,
		notifier:  notifier,
		logger:    logger.With("module", "bulk"),
	}
}

func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

func (o *Orchestrator) Busy() bool {
	return o.State() != StateIdle
}

// Run performs one attempt of kind k. It returns ErrBusy without side effects
// when another attempt is active. A rejection is returned as *RejectionError;
// a failed call returns the gateway error and a failed confirmation its read
// error. All of them were already reported through the Notifier, except a
// confirmation aborted by ctx.
func (o *Orchestrator) Run(ctx context.Context, k Kind) (Result, error) {
	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateValidating)) {
		return Result{}, ErrBusy
	}
	defer o.state.Store(int32(StateIdle))

	in := Intent{Kind: k}
	if k.NeedsSelection() {
		in.TargetIDs = o.roster.Selected()
	}

	if err := Validate(k, in.TargetIDs, o.roster.Lookup); err != nil {
		o.notifier.Error(err.Error())
		o.logger.Debug(ctx, "bulk action rejected", "action", k.String(), "reason", err)
		return Result{Outcome: OutcomeRejected}, err
	}

	o.state.Store(int32(StateAwaitingConfirmation))
	ok, err := o.confirmer.Confirm(ctx, ConfirmationFor(in))
	if err != nil {
		// shutdown is not a failure the operator needs to see
		if ctx.Err() == nil {
			o.notifier.Error(k.failureMessage())
		}
		o.logger.Warn(ctx, "bulk action confirmation failed", "action", k.String(), "error", err)
		return Result{Outcome: OutcomeCancelled}, fmt.Errorf("confirm %s: %w", k, err)
	}
	if !ok {
		return Result{Outcome: OutcomeCancelled}, nil
	}

	o.state.Store(int32(StateExecuting))
	res, err := o.execute(ctx, in)
	if err != nil {
		if !client.Redirected(err) {
			o.notifier.Error(client.Message(err, k.failureMessage()))
		}
		o.logger.Warn(ctx, "bulk action failed", "action", k.String(), "targets", len(in.TargetIDs), "error", err)
		return Result{Outcome: OutcomeFailed}, err
	}

	o.roster.ClearSelection()
	o.notifier.Success(k.successMessage(res.Count))
	o.logger.Info(ctx, "bulk action done", "action", k.String(), "count", res.Count)

	if err := o.roster.Sync(ctx, o.exec); err != nil {
		if !client.Redirected(err) {
			o.notifier.Error(client.Message(err, "Failed to load users"))
		}
		o.logger.Warn(ctx, "roster refresh after bulk action failed", "error", err)
	}

	return Result{Outcome: OutcomeSucceeded, Count: res.Count}, nil
}

func (o *Orchestrator) execute(ctx context.Context, in Intent) (*client.BulkResult, error) {
	switch in.Kind {
	case KindBlock:
		return o.exec.BlockUsers(ctx, in.TargetIDs)
	case KindUnblock:
		return o.exec.UnblockUsers(ctx, in.TargetIDs)
	case KindDelete:
		return o.exec.DeleteUsers(ctx, in.TargetIDs)
	case KindDeleteUnverified:
		return o.exec.DeleteUnverifiedUsers(ctx)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, in.Kind)
	}
}
