package balance

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yzahrani/splitmate/internal/expense"
	"github.com/yzahrani/splitmate/internal/group"
	"github.com/yzahrani/splitmate/internal/settlement"
	"github.com/yzahrani/splitmate/internal/user"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrNotMember     = errors.New("not a member of this group")
	ErrSelfBalance   = errors.New("cannot compute a balance with yourself")
)

// ExpenseSource supplies expense records for balance computation
type ExpenseSource interface {
	ListByGroupID(ctx context.Context, groupID string) ([]*expense.Expense, error)
	ListByParticipant(ctx context.Context, uid string) ([]*expense.Expense, error)
	ListDirectByParticipant(ctx context.Context, uid string) ([]*expense.Expense, error)
	ListDirectBetween(ctx context.Context, uid, peerUID string) ([]*expense.Expense, error)
}

// SettlementSource supplies settlement records for balance computation
type SettlementSource interface {
	ListByGroupID(ctx context.Context, groupID string) ([]*settlement.Settlement, error)
	ListInvolving(ctx context.Context, uid string) ([]*settlement.Settlement, error)
	ListDirectInvolving(ctx context.Context, uid string) ([]*settlement.Settlement, error)
	ListDirectBetween(ctx context.Context, uid, peerUID string) ([]*settlement.Settlement, error)
}

// GroupSource supplies group membership data
type GroupSource interface {
	GetByID(ctx context.Context, id string) (*group.Group, error)
	ListByMemberUID(ctx context.Context, uid string) ([]*group.Group, error)
}

// ProfileSource resolves user profiles for the friends listing
type ProfileSource interface {
	GetByUIDs(ctx context.Context, uids []string) ([]*user.User, error)
}

// Service computes balances on demand. Nothing is cached; every call
// re-fetches and recomputes.
type Service struct {
	expenses    ExpenseSource
	settlements SettlementSource
	groups      GroupSource
	profiles    ProfileSource
}

// NewService creates a new balance service
func NewService(expenses ExpenseSource, settlements SettlementSource, groups GroupSource, profiles ProfileSource) *Service {
	return &Service{
		expenses:    expenses,
		settlements: settlements,
		groups:      groups,
		profiles:    profiles,
	}
}

// GroupBalance computes the caller's position within one group. The caller
// must be a member.
func (s *Service) GroupBalance(ctx context.Context, uid, groupID string) (*GroupBalanceResponse, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	if !g.HasMember(uid) {
		return nil, ErrNotMember
	}

	var (
		expenses    []*expense.Expense
		settlements []*settlement.Settlement
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		expenses, err = s.expenses.ListByGroupID(egCtx, groupID)
		return err
	})
	eg.Go(func() error {
		var err error
		settlements, err = s.settlements.ListByGroupID(egCtx, groupID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	pos := InGroup(uid, expenses, settlements)
	return &GroupBalanceResponse{
		GroupID:   g.ID,
		GroupName: g.Name,
		Owes:      pos.Owes,
		Owed:      pos.Owed,
		Net:       pos.Net,
	}, nil
}

// PeerBalance computes the signed net between the caller and one friend over
// their direct expenses and settlements.
func (s *Service) PeerBalance(ctx context.Context, uid, peerUID string) (*PeerBalanceResponse, error) {
	if uid == peerUID {
		return nil, ErrSelfBalance
	}

	var (
		expenses    []*expense.Expense
		settlements []*settlement.Settlement
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		expenses, err = s.expenses.ListDirectBetween(egCtx, uid, peerUID)
		return err
	})
	eg.Go(func() error {
		var err error
		settlements, err = s.settlements.ListDirectBetween(egCtx, uid, peerUID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &PeerBalanceResponse{
		PeerUID: peerUID,
		Net:     WithPeer(uid, peerUID, expenses, settlements),
	}, nil
}

// OverallSummary aggregates the caller's position across every group they
// belong to and all of their direct activity. Everything is loaded in three
// batched queries, one per collection, and grouped client side.
func (s *Service) OverallSummary(ctx context.Context, uid string) (*SummaryResponse, error) {
	var (
		groups      []*group.Group
		expenses    []*expense.Expense
		settlements []*settlement.Settlement
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		groups, err = s.groups.ListByMemberUID(egCtx, uid)
		return err
	})
	eg.Go(func() error {
		var err error
		expenses, err = s.expenses.ListByParticipant(egCtx, uid)
		return err
	})
	eg.Go(func() error {
		var err error
		settlements, err = s.settlements.ListInvolving(egCtx, uid)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	expensesByGroup := make(map[string][]*expense.Expense)
	var directExpenses []*expense.Expense
	for _, e := range expenses {
		if e.IsDirect() {
			directExpenses = append(directExpenses, e)
		} else {
			expensesByGroup[*e.GroupID] = append(expensesByGroup[*e.GroupID], e)
		}
	}

	settlementsByGroup := make(map[string][]*settlement.Settlement)
	var directSettlements []*settlement.Settlement
	for _, st := range settlements {
		if st.IsDirect() {
			directSettlements = append(directSettlements, st)
		} else {
			settlementsByGroup[*st.GroupID] = append(settlementsByGroup[*st.GroupID], st)
		}
	}

	nonGroup := Combined(uid, directExpenses, directSettlements)

	var owes, owed float64
	entries := make([]GroupSummaryEntry, 0, len(groups))
	for _, g := range groups {
		pos := InGroup(uid, expensesByGroup[g.ID], settlementsByGroup[g.ID])
		entries = append(entries, GroupSummaryEntry{
			GroupID:   g.ID,
			GroupName: g.Name,
			Net:       pos.Net,
		})
		if pos.Net > 0 {
			owed += pos.Net
		} else {
			owes += -pos.Net
		}
	}

	owes += nonGroup.Owes
	owed += nonGroup.Owed
	total := finalize(owes, owed)

	return &SummaryResponse{
		YouOwe:     total.Owes,
		YouAreOwed: total.Owed,
		NetBalance: total.Net,
		Groups:     entries,
		NonGroup:   nonGroup,
	}, nil
}

// FriendsWithBalances discovers every counterparty the caller shares a group,
// a direct expense, or a direct settlement with and computes the direct net
// for each. Profiles are fetched in one batched query; a friend whose profile
// cannot be resolved is reported with an error marker rather than dropped.
func (s *Service) FriendsWithBalances(ctx context.Context, uid string) ([]*FriendBalance, error) {
	var (
		groups      []*group.Group
		expenses    []*expense.Expense
		settlements []*settlement.Settlement
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		groups, err = s.groups.ListByMemberUID(egCtx, uid)
		return err
	})
	eg.Go(func() error {
		var err error
		expenses, err = s.expenses.ListDirectByParticipant(egCtx, uid)
		return err
	})
	eg.Go(func() error {
		var err error
		settlements, err = s.settlements.ListDirectInvolving(egCtx, uid)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	discovered := make(map[string]struct{})
	for _, g := range groups {
		for _, m := range g.Members {
			if m.UID != uid {
				discovered[m.UID] = struct{}{}
			}
		}
	}
	for _, e := range expenses {
		for _, p := range e.Participants {
			if p.UID != uid {
				discovered[p.UID] = struct{}{}
			}
		}
	}
	for _, st := range settlements {
		if st.PaidByUID != uid {
			discovered[st.PaidByUID] = struct{}{}
		}
		if st.PaidToUID != uid {
			discovered[st.PaidToUID] = struct{}{}
		}
	}

	if len(discovered) == 0 {
		return []*FriendBalance{}, nil
	}

	uids := make([]string, 0, len(discovered))
	for peerUID := range discovered {
		uids = append(uids, peerUID)
	}

	profilesByUID := make(map[string]*user.User, len(uids))
	profiles, err := s.profiles.GetByUIDs(ctx, uids)
	if err == nil {
		for _, p := range profiles {
			profilesByUID[p.UID] = p
		}
	}

	friends := make([]*FriendBalance, 0, len(uids))
	for _, peerUID := range uids {
		fb := &FriendBalance{
			UID:     peerUID,
			Balance: WithPeer(uid, peerUID, expenses, settlements),
		}
		if profile, ok := profilesByUID[peerUID]; ok {
			fb.Username = profile.Username
			fb.FirstName = profile.FirstName
			fb.LastName = profile.LastName
			fb.ProfilePicURL = profile.ProfilePicURL
		} else {
			fb.Username = peerUID
			fb.Error = "profile unavailable"
		}
		friends = append(friends, fb)
	}

	sort.Slice(friends, func(i, j int) bool {
		if friends[i].Username != friends[j].Username {
			return friends[i].Username < friends[j].Username
		}
		return friends[i].UID < friends[j].UID
	})

	return friends, nil
}
