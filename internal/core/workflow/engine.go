// Package workflow implements the staged approval pipeline that moves a
// tenant's draft configuration into the live slot. Submit and Approve
// are pure decision functions over a tenant snapshot: they validate the
// actor against the policy, compute the next state and return a
// Mutation for the caller to persist. The engine itself holds no
// mutable state and never touches storage.
package workflow

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/luminahq/lumina/internal/core/rbac"
)

// Status is a tenant's position in the review pipeline.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusPendingAdmin      Status = "pending_admin_review"
	StatusPendingSuperAdmin Status = "pending_super_admin_review"
	StatusPublished         Status = "published"
)

// ParseStatus validates a stored status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusDraft, StatusPendingAdmin, StatusPendingSuperAdmin, StatusPublished:
		return Status(s), true
	}
	return "", false
}

var (
	// ErrPermissionDenied means the actor's role lacks the required action.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNoPendingChanges means Approve was called with nothing to approve.
	ErrNoPendingChanges = errors.New("no pending changes to approve")
	// ErrInvalidStateTransition means the escalate branch was taken while
	// the tenant was not waiting for admin review.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrConcurrentModification means the tenant changed between the
	// decision-time read and the conditional write. Produced by the
	// repository when a Mutation's expected revision is stale.
	ErrConcurrentModification = errors.New("tenant was modified concurrently")
)

// TenantState is the snapshot of a tenant the engine decides on.
// PendingConfig and LiveConfig are opaque blobs; the engine copies
// them between slots without inspecting their contents.
type TenantState struct {
	TenantID      string
	Status        Status
	LiveConfig    json.RawMessage
	PendingConfig json.RawMessage
	Revision      int64
}

// Mutation is the partial field merge to apply to the tenant record.
// ExpectedRevision is the revision read at decision time; the
// repository applies the mutation only if it still matches and
// reports ErrConcurrentModification otherwise.
type Mutation struct {
	TenantID         string
	ExpectedRevision int64

	Status     Status
	ModifiedBy string
	ModifiedAt time.Time

	SetPendingConfig bool
	PendingConfig    json.RawMessage
	SetLiveConfig    bool
	LiveConfig       json.RawMessage
	ClearPending     bool
}

// Outcome distinguishes what an Approve decided, so the caller can pick
// the right notification message and recipient.
type Outcome string

const (
	// OutcomePublished means the pending config was copied live.
	OutcomePublished Outcome = "published"
	// OutcomeEscalated means the item moved to the super admin stage.
	OutcomeEscalated Outcome = "escalated"
)

// Engine computes workflow transitions against an immutable policy.
type Engine struct {
	policy *rbac.Policy
	now    func() time.Time
}

// NewEngine creates a workflow engine bound to the given policy.
func NewEngine(policy *rbac.Policy) *Engine {
	return &Engine{policy: policy, now: time.Now}
}

// Submit records a new draft on the tenant and computes the review
// stage it enters. A publish-capable actor's own edit skips the admin
// stage and goes straight to the final gate; everyone else queues for
// admin review. Submit never inspects the current status: any edit,
// from any state, resets the review clock (last editor wins the queue).
func (e *Engine) Submit(t TenantState, cfg json.RawMessage, actorRole rbac.Role, actorEmail string) (Mutation, error) {
	if !e.policy.Allowed(actorRole, rbac.ActionEditDraft) {
		return Mutation{}, ErrPermissionDenied
	}

	next := StatusPendingAdmin
	if e.policy.Allowed(actorRole, rbac.ActionPublishLive) {
		next = StatusPendingSuperAdmin
	}

	return Mutation{
		TenantID:         t.TenantID,
		ExpectedRevision: t.Revision,
		Status:           next,
		ModifiedBy:       actorEmail,
		ModifiedAt:       e.now(),
		SetPendingConfig: true,
		PendingConfig:    cfg,
	}, nil
}

// Approve moves the pending item forward. Branch order matters:
// publish capability is strictly stronger than escalate capability, so
// it is checked first and carries no state precondition (a top-tier
// actor may publish a tenant stuck in any stage). The narrower
// escalate branch requires the tenant to be waiting for admin review
// exactly.
func (e *Engine) Approve(t TenantState, actorRole rbac.Role, actorEmail string) (Mutation, Outcome, error) {
	if len(t.PendingConfig) == 0 {
		return Mutation{}, "", ErrNoPendingChanges
	}

	now := e.now()

	if e.policy.Allowed(actorRole, rbac.ActionPublishLive) {
		return Mutation{
			TenantID:         t.TenantID,
			ExpectedRevision: t.Revision,
			Status:           StatusPublished,
			ModifiedBy:       actorEmail,
			ModifiedAt:       now,
			SetLiveConfig:    true,
			LiveConfig:       t.PendingConfig,
			ClearPending:     true,
		}, OutcomePublished, nil
	}

	if e.policy.Allowed(actorRole, rbac.ActionApproveToSuper) {
		if t.Status != StatusPendingAdmin {
			return Mutation{}, "", ErrInvalidStateTransition
		}
		// pending_config is carried forward, not consumed
		return Mutation{
			TenantID:         t.TenantID,
			ExpectedRevision: t.Revision,
			Status:           StatusPendingSuperAdmin,
			ModifiedBy:       actorEmail,
			ModifiedAt:       now,
		}, OutcomeEscalated, nil
	}

	return Mutation{}, "", ErrPermissionDenied
}
