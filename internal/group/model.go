package group

import "time"

// MemberRole represents the role of a group member
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// Member represents one user's membership entry, stored inline on the group.
type Member struct {
	UID      string     `json:"uid"`
	Username string     `json:"username"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

// Group represents a named collection of members. MemberUIDs mirrors
// Members[].UID for containment queries.
type Group struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedByUID string    `json:"created_by_uid"`
	Members      []Member  `json:"members"`
	MemberUIDs   []string  `json:"member_uids"`
	CreatedAt    time.Time `json:"created_at"`
}

// MemberByUID returns the membership entry for the uid, if any.
func (g *Group) MemberByUID(uid string) (Member, bool) {
	for _, m := range g.Members {
		if m.UID == uid {
			return m, true
		}
	}
	return Member{}, false
}

// HasMember reports whether the uid is a member.
func (g *Group) HasMember(uid string) bool {
	_, ok := g.MemberByUID(uid)
	return ok
}

// IsAdmin reports whether the uid is an admin member.
func (g *Group) IsAdmin(uid string) bool {
	m, ok := g.MemberByUID(uid)
	return ok && m.Role == MemberRoleAdmin
}

// adminCount returns the number of admin members.
func (g *Group) adminCount() int {
	n := 0
	for _, m := range g.Members {
		if m.Role == MemberRoleAdmin {
			n++
		}
	}
	return n
}

// IsSoleAdmin reports whether removing the uid would leave a multi-member
// group without an admin. The sole admin cannot leave or be removed while
// other members remain.
func (g *Group) IsSoleAdmin(uid string) bool {
	m, ok := g.MemberByUID(uid)
	if !ok || m.Role != MemberRoleAdmin {
		return false
	}
	return g.adminCount() == 1 && len(g.Members) > 1
}

// WithoutMember returns the member and uid lists with the given uid removed.
func (g *Group) WithoutMember(uid string) ([]Member, []string) {
	members := make([]Member, 0, len(g.Members))
	uids := make([]string, 0, len(g.MemberUIDs))
	for _, m := range g.Members {
		if m.UID != uid {
			members = append(members, m)
			uids = append(uids, m.UID)
		}
	}
	return members, uids
}
