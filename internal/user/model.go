package user

import "time"

// User represents a profile stored for an authenticated account. The UID
// comes from the identity provider and is the key every other table uses.
type User struct {
	UID           string    `json:"uid"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	ProfilePicURL string    `json:"profilePicUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DisplayName returns the user's full name, falling back to the username.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
