// Package ledger implements the group ledger: the authoritative collection
// of groups, their members, shared expenses and splits.
//
// Every mutation follows the same contract: find the target by id, apply
// the change, refresh the group's UpdatedAt and enqueue a persistence
// write. Unknown ids make the whole operation a silent no-op — no error,
// no UpdatedAt refresh, no write. Callers that need to confirm an effect
// re-read through the query methods. This is deliberate: ids always come
// from a prior read, so a miss is either a stale reference (safe to
// ignore) or a programming bug (caught by tests, not runtime errors).
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Aryan-Srivastava/expense-tracker/internal/calculator"
	"github.com/Aryan-Srivastava/expense-tracker/internal/metrics"
	"github.com/Aryan-Srivastava/expense-tracker/internal/models"
	"github.com/Aryan-Srivastava/expense-tracker/internal/persist"
	"github.com/Aryan-Srivastava/expense-tracker/internal/storage"
)

// document is the persisted shape under storage.KeyGroups.
type document struct {
	Groups []models.Group `json:"groups"`
}

// Options overrides the store's clock and id generation, mainly for tests.
type Options struct {
	// Now supplies timestamps for CreatedAt/UpdatedAt. Defaults to time.Now.
	Now func() time.Time

	// NewID mints entity ids. Defaults to the decimal Unix-millisecond
	// timestamp, matching ids already present in persisted data. Collisions
	// are a theoretical risk accepted for a single-user, low-write store.
	NewID func() string
}

func (o *Options) fill() {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		now := o.Now
		o.NewID = func() string {
			return strconv.FormatInt(now().UnixMilli(), 10)
		}
	}
}

// Store owns the group collection. There is exactly one logical writer
// (the UI shell), so a single mutex around the slice is enough; query
// methods copy out so callers never alias internal state.
type Store struct {
	mu     sync.Mutex
	groups []models.Group

	saver   persist.Saver
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// New hydrates a Store from kv. A missing document means first run and
// yields an empty ledger; a corrupt one is an error.
func New(ctx context.Context, kv storage.Store, saver persist.Saver, m *metrics.Metrics, opts Options) (*Store, error) {
	opts.fill()
	s := &Store{
		saver:   saver,
		metrics: m,
		now:     opts.Now,
		newID:   opts.NewID,
	}

	data, err := kv.Load(ctx, storage.KeyGroups)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		slog.Info("no ledger document found, starting empty")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode ledger document: %w", err)
	}
	s.groups = doc.Groups
	slog.Info("ledger loaded", "groups", len(s.groups))
	return s, nil
}

// CreateGroup assigns a fresh id and timestamps and appends the group.
// The created group is returned for convenience; the store keeps its own
// copy.
func (s *Store) CreateGroup(name string, members []models.Member, expenses []models.GroupExpense) models.Group {
	s.metrics.MutationsTotal.WithLabelValues("ledger", "create_group").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	now := models.NewTime(s.now())
	group := models.Group{
		ID:        s.newID(),
		Name:      name,
		Members:   cloneMembers(members),
		Expenses:  cloneExpenses(expenses),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.groups = append(s.groups, group)
	s.persistLocked()

	slog.Info("group created", "group_id", group.ID, "name", name, "members", len(group.Members))
	return cloneGroup(group)
}

// UpdateGroup merges the patch into the group with the given id and
// refreshes its UpdatedAt. Unknown id: no-op.
func (s *Store) UpdateGroup(id string, patch models.GroupPatch) {
	s.metrics.MutationsTotal.WithLabelValues("ledger", "update_group").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findLocked(id)
	if g == nil {
		slog.Debug("update for unknown group ignored", "group_id", id)
		return
	}
	g.Apply(patch)
	g.UpdatedAt = models.NewTime(s.now())
	s.persistLocked()
	slog.Info("group updated", "group_id", id)
}

// DeleteGroup removes the group with the given id, discarding its members
// and expenses. Unknown id: no-op.
func (s *Store) DeleteGroup(id string) {
	s.metrics.MutationsTotal.WithLabelValues("ledger", "delete_group").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.groups {
		if s.groups[i].ID == id {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			s.persistLocked()
			slog.Info("group deleted", "group_id", id)
			return
		}
	}
	slog.Debug("delete for unknown group ignored", "group_id", id)
}

// GroupByID returns a copy of the group, or false if it does not exist.
func (s *Store) GroupByID(id string) (models.Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g := s.findLocked(id); g != nil {
		return cloneGroup(*g), true
	}
	return models.Group{}, false
}

// Groups returns a copy of every group in insertion order.
func (s *Store) Groups() []models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Group, len(s.groups))
	for i, g := range s.groups {
		out[i] = cloneGroup(g)
	}
	return out
}

// AddMember assigns a fresh id to member and appends it to the group.
// Unknown group: no-op.
func (s *Store) AddMember(groupID string, member models.Member) {
	s.metrics.MutationsTotal.WithLabelValues("ledger", "add_member").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findLocked(groupID)
	if g == nil {
		slog.Debug("add member for unknown group ignored", "group_id", groupID)
		return
	}
	member.ID = s.newID()
	g.Members = append(g.Members, member)
	g.UpdatedAt = models.NewTime(s.now())
	s.persistLocked()
	slog.Info("member added", "group_id", groupID, "member_id", member.ID, "name", member.Name)
}

// RemoveMember drops the member from the group's member list. Expenses
// keep referencing the removed id; those references dangle and resolve to
// "not found" at read time. Unknown group or member: no-op.
func (s *Store) RemoveMember(groupID, memberID string) {
	s.metrics.MutationsTotal.WithLabelValues("ledger", "remove_member").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findLocked(groupID)
	if g == nil {
		return
	}
	for i := range g.Members {
		if g.Members[i].ID == memberID {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			g.UpdatedAt = models.NewTime(s.now())
			s.persistLocked()
			slog.Info("member removed", "group_id", groupID, "member_id", memberID)
			return
		}
	}
	slog.Debug("remove for unknown member ignored", "group_id", groupID, "member_id", memberID)
}

// AddExpense assigns a fresh id, clears the settled flag and appends the
// expense to the group. Unknown group: no-op.
func (s *Store) AddExpense(groupID string, expense models.GroupExpense) {
	s.metrics.MutationsTotal.WithLabelValues("ledger", "add_expense").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findLocked(groupID)
	if g == nil {
		slog.Debug("add expense for unknown group ignored", "group_id", groupID)
		return
	}
	expense.ID = s.newID()
	expense.Settled = false
	expense.SplitBetween = cloneSplits(expense.SplitBetween)
	g.Expenses = append(g.Expenses, expense)
	g.UpdatedAt = models.NewTime(s.now())
	s.persistLocked()
	slog.Info("expense added", "group_id", groupID, "expense_id", expense.ID, "amount", expense.Amount)
}

// UpdateExpense merges the patch into the expense. Unknown group or
// expense: no-op, without touching the group's UpdatedAt.
func (s *Store) UpdateExpense(groupID, expenseID string, patch models.GroupExpensePatch) {
	s.metrics.MutationsTotal.WithLabelValues("ledger", "update_expense").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findLocked(groupID)
	if g == nil {
		return
	}
	for i := range g.Expenses {
		if g.Expenses[i].ID == expenseID {
			g.Expenses[i].Apply(patch)
			g.UpdatedAt = models.NewTime(s.now())
			s.persistLocked()
			slog.Info("expense updated", "group_id", groupID, "expense_id", expenseID)
			return
		}
	}
	slog.Debug("update for unknown expense ignored", "group_id", groupID, "expense_id", expenseID)
}

// DeleteExpense removes the expense from the group. Unknown group or
// expense: no-op.
func (s *Store) DeleteExpense(groupID, expenseID string) {
	s.metrics.MutationsTotal.WithLabelValues("ledger", "delete_expense").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findLocked(groupID)
	if g == nil {
		return
	}
	for i := range g.Expenses {
		if g.Expenses[i].ID == expenseID {
			g.Expenses = append(g.Expenses[:i], g.Expenses[i+1:]...)
			g.UpdatedAt = models.NewTime(s.now())
			s.persistLocked()
			slog.Info("expense deleted", "group_id", groupID, "expense_id", expenseID)
			return
		}
	}
}

// SettleExpenseSplit marks one member's share of an expense as paid, then
// recomputes the expense-level settled flag from every split OTHER than
// the one just written: the write is assumed to have taken, so only the
// remaining shares decide. Settling the last open share therefore always
// settles the expense. Unknown group, expense or member share: no-op.
func (s *Store) SettleExpenseSplit(groupID, expenseID, memberID string) {
	s.metrics.MutationsTotal.WithLabelValues("ledger", "settle_split").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findLocked(groupID)
	if g == nil {
		return
	}
	for i := range g.Expenses {
		e := &g.Expenses[i]
		if e.ID != expenseID {
			continue
		}
		matched := false
		for j := range e.SplitBetween {
			if e.SplitBetween[j].MemberID == memberID {
				e.SplitBetween[j].Settled = true
				matched = true
			}
		}
		if !matched {
			slog.Debug("settle for unknown split ignored",
				"group_id", groupID, "expense_id", expenseID, "member_id", memberID)
			return
		}

		othersSettled := true
		for _, split := range e.SplitBetween {
			if split.MemberID != memberID && !split.Settled {
				othersSettled = false
				break
			}
		}
		e.Settled = othersSettled

		g.UpdatedAt = models.NewTime(s.now())
		s.persistLocked()
		slog.Info("split settled",
			"group_id", groupID, "expense_id", expenseID, "member_id", memberID,
			"expense_settled", e.Settled)
		return
	}
}

// TotalOwedToUser reports what others still owe userID across all groups.
func (s *Store) TotalOwedToUser(userID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calculator.TotalOwedToUser(s.groups, userID)
}

// TotalUserOwes reports what userID still owes others across all groups.
func (s *Store) TotalUserOwes(userID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calculator.TotalUserOwes(s.groups, userID)
}

// GroupBalance nets userID's position in one group. Unknown group: 0.
func (s *Store) GroupBalance(groupID, userID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g := s.findLocked(groupID); g != nil {
		return calculator.GroupBalance(*g, userID)
	}
	return 0
}

// findLocked returns a pointer into s.groups; callers hold s.mu.
func (s *Store) findLocked(id string) *models.Group {
	for i := range s.groups {
		if s.groups[i].ID == id {
			return &s.groups[i]
		}
	}
	return nil
}

// persistLocked snapshots the collection and hands it to the saver.
// Serialization failures are logged, never surfaced: persistence is
// best-effort and the mutation has already happened.
func (s *Store) persistLocked() {
	data, err := json.Marshal(document{Groups: s.groups})
	if err != nil {
		slog.Error("failed to encode ledger document", "error", err)
		return
	}
	s.saver.Enqueue(storage.KeyGroups, data)
}
