package cnst

// AuditAction names an event recorded in the audit trail.
type AuditAction string

const (
	AuditSubmitDraft       AuditAction = "submit_draft"
	AuditApproveEscalate   AuditAction = "approve_escalate"
	AuditPublishLive       AuditAction = "publish_live"
	AuditCreateTenant      AuditAction = "create_tenant"
	AuditUpdateTenant      AuditAction = "update_tenant"
	AuditArchiveTenant     AuditAction = "archive_tenant"
	AuditUnarchiveTenant   AuditAction = "unarchive_tenant"
	AuditDeleteTenant      AuditAction = "delete_tenant"
	AuditCreateUser        AuditAction = "create_user"
	AuditUpdateUser        AuditAction = "update_user"
	AuditDeleteUser        AuditAction = "delete_user"
	AuditUpdateAssignments AuditAction = "update_assignments"
)
