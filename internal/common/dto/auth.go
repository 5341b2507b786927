package dto

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// ChangePasswordRequest represents a request to change password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UserInfo represents the authenticated user returned by auth endpoints
type UserInfo struct {
	ID              uint     `json:"id"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	AssignedTenants []string `json:"assigned_tenants"`
}
