// Package access decides whether a user may act on a tenant based on
// role tier and the user's assignment list. Assignment lists are weak
// references: entries may point at archived or deleted tenants and are
// filtered against the live tenant set on every read.
package access

import (
	"strings"

	"github.com/luminahq/lumina/internal/core/rbac"
)

// TenantLookup reports whether a tenant id resolves to a stored tenant
// and whether that tenant is archived. Implemented by the repository;
// injected here so the guard stays testable without a store.
type TenantLookup func(tenantID string) (exists bool, archived bool)

// Guard evaluates tenant access against the shared policy table.
type Guard struct {
	policy *rbac.Policy
}

// NewGuard creates a guard bound to an immutable policy.
func NewGuard(policy *rbac.Policy) *Guard {
	return &Guard{policy: policy}
}

// Normalize canonicalizes a raw assignment list: trims whitespace,
// drops empty entries and deduplicates while preserving first-seen
// order. Every read of an assignment list goes through here.
func Normalize(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// NormalizeJoined splits a comma-joined assignment string and
// normalizes it. Accepts the same input shape some clients send
// instead of a native list.
func NormalizeJoined(joined string) []string {
	return Normalize(strings.Split(joined, ","))
}

// CanAccess reports whether a user with the given role and raw
// assignment list may act on tenantID. Super-tier roles (holders of
// manage_users) bypass assignment checks entirely; everyone else needs
// the id in their normalized list and the tenant must exist and not be
// archived.
func (g *Guard) CanAccess(role rbac.Role, rawAssignments []string, tenantID string, lookup TenantLookup) bool {
	if g.policy.Allowed(role, rbac.ActionManageUsers) {
		return true
	}

	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return false
	}

	assigned := false
	for _, id := range Normalize(rawAssignments) {
		if id == tenantID {
			assigned = true
			break
		}
	}
	if !assigned {
		return false
	}

	exists, archived := lookup(tenantID)
	return exists && !archived
}

// FilterExisting normalizes a candidate assignment list and keeps only
// ids that resolve to existing, non-archived tenants. Invalid entries
// are dropped silently; the caller gets the accepted list and its
// length as the accepted count.
func FilterExisting(raw []string, lookup TenantLookup) ([]string, int) {
	normalized := Normalize(raw)
	accepted := make([]string, 0, len(normalized))
	for _, id := range normalized {
		exists, archived := lookup(id)
		if exists && !archived {
			accepted = append(accepted, id)
		}
	}
	return accepted, len(accepted)
}
