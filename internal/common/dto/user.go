package dto

// CreateUserRequest represents a request to onboard a new user
type CreateUserRequest struct {
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=8"`
	Role            string   `json:"role" binding:"required"`
	AssignedTenants []string `json:"assigned_tenants,omitempty"`
}

// UpdateUserRequest represents a request to update a user
type UpdateUserRequest struct {
	Password        string    `json:"password,omitempty"`
	Role            string    `json:"role,omitempty"`
	AssignedTenants *[]string `json:"assigned_tenants,omitempty"`
	IsActive        *bool     `json:"is_active,omitempty"`
}

// UserResponse represents a user in management listings. DroppedTenants
// counts assignment entries that referenced deleted tenants and were
// filtered out of AssignedTenants.
type UserResponse struct {
	ID              uint     `json:"id"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	AssignedTenants []string `json:"assigned_tenants"`
	DroppedTenants  int      `json:"dropped_tenants,omitempty"`
	IsActive        bool     `json:"is_active"`
}
