package group

import "time"

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// UpdateGroupRequest represents the request to rename a group
type UpdateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// AddMemberRequest represents the request to add a member to a group
type AddMemberRequest struct {
	UID      string `json:"uid" validate:"required"`
	Username string `json:"username" validate:"required,min=1,max=100"`
}

// MemberResponse represents one member in a group response
type MemberResponse struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	CreatedByUID string           `json:"created_by_uid"`
	Members      []MemberResponse `json:"members"`
	CreatedAt    string           `json:"created_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	members := make([]MemberResponse, len(g.Members))
	for i, m := range g.Members {
		members[i] = MemberResponse{
			UID:      m.UID,
			Username: m.Username,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt.Format(time.RFC3339),
		}
	}
	return &GroupResponse{
		ID:           g.ID,
		Name:         g.Name,
		CreatedByUID: g.CreatedByUID,
		Members:      members,
		CreatedAt:    g.CreatedAt.Format(time.RFC3339),
	}
}
