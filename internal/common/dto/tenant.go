package dto

import "encoding/json"

// CreateTenantRequest represents a request to create a tenant
type CreateTenantRequest struct {
	TenantID   string          `json:"tenant_id" binding:"required"`
	ClientName string          `json:"client_name" binding:"required"`
	Slug       string          `json:"slug" binding:"required"`
	LiveConfig json.RawMessage `json:"live_config,omitempty"`
}

// UpdateTenantRequest represents a request to update tenant metadata
type UpdateTenantRequest struct {
	ClientName string `json:"client_name,omitempty"`
	Slug       string `json:"slug,omitempty"`
}

// SubmitDraftRequest carries a draft configuration into the approval
// pipeline. Revision is the revision the editor last read; a stale
// value is rejected instead of silently overwriting newer work.
type SubmitDraftRequest struct {
	Config   json.RawMessage `json:"config" binding:"required"`
	Revision int64           `json:"revision"`
}

// ApproveRequest represents an approval decision on pending changes
type ApproveRequest struct {
	Revision int64 `json:"revision"`
}

// WorkflowResponse reports where a submission or approval landed
type WorkflowResponse struct {
	TenantID  string `json:"tenant_id"`
	Status    string `json:"status"`
	Published bool   `json:"published"`
	Revision  int64  `json:"revision"`
}
