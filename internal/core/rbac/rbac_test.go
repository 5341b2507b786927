package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"super_admin", "admin", "super_user", "contributor", "user"} {
		role, ok := ParseRole(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "root", "SUPER_ADMIN", "admin ", "superadmin"} {
		_, ok := ParseRole(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestDefaultPolicyGrants(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.Allowed(RoleSuperAdmin, ActionPublishLive))
	assert.True(t, p.Allowed(RoleSuperAdmin, ActionManageUsers))
	assert.True(t, p.Allowed(RoleAdmin, ActionApproveToSuper))
	assert.False(t, p.Allowed(RoleAdmin, ActionPublishLive))
	assert.False(t, p.Allowed(RoleAdmin, ActionManageUsers))
	assert.True(t, p.Allowed(RoleContributor, ActionSubmitReview))
	assert.False(t, p.Allowed(RoleContributor, ActionApproveToSuper))
	assert.True(t, p.Allowed(RoleSuperUser, ActionEditDraft))
	assert.False(t, p.Allowed(RoleSuperUser, ActionSubmitReview))
	assert.True(t, p.Allowed(RoleUser, ActionViewDashboard))
	assert.False(t, p.Allowed(RoleUser, ActionEditDraft))
}

func TestAllowedUnknownRoleIsDenied(t *testing.T) {
	p := DefaultPolicy()

	actions := []Action{
		ActionViewDashboard,
		ActionEditDraft,
		ActionSubmitReview,
		ActionApproveToSuper,
		ActionPublishLive,
		ActionRejectChanges,
		ActionManageUsers,
	}
	for _, a := range actions {
		assert.False(t, p.Allowed(Role("stranger"), a))
		assert.False(t, p.Allowed(Role(""), a))
	}
}

func TestNewPolicyCopiesInput(t *testing.T) {
	table := map[Role][]Action{RoleUser: {ActionViewDashboard}}
	p := NewPolicy(table)

	table[RoleUser] = append(table[RoleUser], ActionManageUsers)
	delete(table, RoleUser)

	assert.True(t, p.Allowed(RoleUser, ActionViewDashboard))
	assert.False(t, p.Allowed(RoleUser, ActionManageUsers))
}

func TestEveryRoleHasExplicitEntry(t *testing.T) {
	p := DefaultPolicy()
	assert.ElementsMatch(t, []Role{RoleSuperAdmin, RoleAdmin, RoleSuperUser, RoleContributor, RoleUser}, p.Roles())
}
