package balance

// GroupBalanceResponse is one user's position within a single group.
type GroupBalanceResponse struct {
	GroupID   string  `json:"groupId"`
	GroupName string  `json:"groupName"`
	Owes      float64 `json:"owes"`
	Owed      float64 `json:"owed"`
	Net       float64 `json:"net"`
}

// PeerBalanceResponse is the signed net with a single counterparty.
// Positive means the peer owes the caller.
type PeerBalanceResponse struct {
	PeerUID string  `json:"peerUid"`
	Net     float64 `json:"net"`
}

// GroupSummaryEntry is one group's contribution to the overall summary.
type GroupSummaryEntry struct {
	GroupID   string  `json:"groupId"`
	GroupName string  `json:"groupName"`
	Net       float64 `json:"net"`
}

// SummaryResponse is a user's aggregate position across every group and
// every direct relationship.
type SummaryResponse struct {
	YouOwe     float64             `json:"youOwe"`
	YouAreOwed float64             `json:"youAreOwed"`
	NetBalance float64             `json:"netBalance"`
	Groups     []GroupSummaryEntry `json:"groups"`
	NonGroup   Position            `json:"nonGroup"`
}

// FriendBalance is one discovered counterparty with their direct net.
// Error is set when the friend's profile could not be resolved; the balance
// is still reported.
type FriendBalance struct {
	UID           string  `json:"uid"`
	Username      string  `json:"username"`
	FirstName     string  `json:"firstName,omitempty"`
	LastName      string  `json:"lastName,omitempty"`
	ProfilePicURL string  `json:"profilePicUrl,omitempty"`
	Balance       float64 `json:"balance"`
	Error         string  `json:"error,omitempty"`
}
