package rbac

// Role identifies a privilege tier. The set is closed; anything outside
// it carries no permissions at all.
type Role string

const (
	// RoleSuperAdmin can publish to live and manage users and tenants
	RoleSuperAdmin Role = "super_admin"
	// RoleAdmin can approve drafts up to the super admin stage
	RoleAdmin Role = "admin"
	// RoleSuperUser is a client-side editor: edit and submit drafts
	RoleSuperUser Role = "super_user"
	// RoleContributor is an internal editor: create drafts but not approve
	RoleContributor Role = "contributor"
	// RoleUser has read-only dashboard access
	RoleUser Role = "user"
)

// Action is a discrete privilege checked against the policy.
type Action string

const (
	ActionViewDashboard  Action = "view_dashboard"
	ActionEditDraft      Action = "edit_draft"
	ActionSubmitReview   Action = "submit_review"
	ActionApproveToSuper Action = "approve_to_super"
	ActionPublishLive    Action = "publish_live"
	ActionRejectChanges  Action = "reject_changes"
	ActionManageUsers    Action = "manage_users"
)

// ParseRole validates a raw role string against the closed role set.
// Unknown values return false; callers must treat them as having no
// permissions rather than coercing to a default role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleSuperUser, RoleContributor, RoleUser:
		return Role(s), true
	}
	return "", false
}

// Policy is an immutable mapping from role to its permitted actions.
// Build it once at startup and share it; it is never mutated.
type Policy struct {
	grants map[Role]map[Action]struct{}
}

// DefaultPolicy returns the platform policy table. Every role in the
// closed set has an explicit entry.
func DefaultPolicy() *Policy {
	return NewPolicy(map[Role][]Action{
		RoleSuperAdmin: {
			ActionViewDashboard,
			ActionEditDraft,
			ActionSubmitReview,
			ActionApproveToSuper,
			ActionPublishLive,
			ActionRejectChanges,
			ActionManageUsers,
		},
		RoleAdmin: {
			ActionViewDashboard,
			ActionEditDraft,
			ActionSubmitReview,
			ActionApproveToSuper,
			ActionRejectChanges,
		},
		RoleContributor: {
			ActionViewDashboard,
			ActionEditDraft,
			ActionSubmitReview,
		},
		RoleSuperUser: {
			ActionViewDashboard,
			ActionEditDraft,
		},
		RoleUser: {
			ActionViewDashboard,
		},
	})
}

// NewPolicy builds an immutable policy from a role to actions table.
// The input is copied so later changes to it cannot leak in.
func NewPolicy(table map[Role][]Action) *Policy {
	grants := make(map[Role]map[Action]struct{}, len(table))
	for role, actions := range table {
		set := make(map[Action]struct{}, len(actions))
		for _, a := range actions {
			set[a] = struct{}{}
		}
		grants[role] = set
	}
	return &Policy{grants: grants}
}

// Allowed reports whether the role may perform the action. Unknown
// roles and roles without the grant both return false; absence of
// permission is never an error.
func (p *Policy) Allowed(role Role, action Action) bool {
	actions, ok := p.grants[role]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// Roles returns the roles present in the policy table.
func (p *Policy) Roles() []Role {
	roles := make([]Role, 0, len(p.grants))
	for role := range p.grants {
		roles = append(roles, role)
	}
	return roles
}
