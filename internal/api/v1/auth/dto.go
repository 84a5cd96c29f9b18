package auth

// UserResponse is the public view of a user.
type UserResponse struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	OrganizationID uint   `json:"organization_id"`
	Token          string `json:"token,omitempty"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
