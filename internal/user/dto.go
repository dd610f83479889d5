package user

import "time"

// CreateProfileRequest represents the request body for creating the
// caller's profile after their first sign-in
type CreateProfileRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email         string `json:"email" validate:"required,email"`
	FirstName     string `json:"firstName" validate:"max=50"`
	LastName      string `json:"lastName" validate:"max=50"`
	ProfilePicURL string `json:"profilePicUrl" validate:"omitempty,url"`
}

// UpdateProfileRequest represents the request body for updating the
// caller's profile. Email and username are immutable once set.
type UpdateProfileRequest struct {
	FirstName     *string `json:"firstName,omitempty" validate:"omitempty,max=50"`
	LastName      *string `json:"lastName,omitempty" validate:"omitempty,max=50"`
	ProfilePicURL *string `json:"profilePicUrl,omitempty" validate:"omitempty,url"`
}

// UserResponse represents the response for a single user profile
type UserResponse struct {
	UID           string `json:"uid"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	ProfilePicURL string `json:"profilePicUrl"`
	CreatedAt     string `json:"createdAt"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		UID:           u.UID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		ProfilePicURL: u.ProfilePicURL,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
}
