package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/Aryan-Srivastava/expense-tracker/internal/metrics"
	"github.com/Aryan-Srivastava/expense-tracker/internal/models"
	"github.com/Aryan-Srivastava/expense-tracker/internal/persist"
	"github.com/Aryan-Srivastava/expense-tracker/internal/storage/memory"
)

const epsilon = 1e-9

// newTestStore builds a store over in-memory storage with a deterministic
// clock (one second per tick) and sequential ids.
func newTestStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()

	kv := memory.New()
	tick := 0
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	idSeq := 0

	s, err := New(context.Background(), kv, persist.Direct{Store: kv, Metrics: metrics.Nop()}, metrics.Nop(), Options{
		Now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
		NewID: func() string {
			idSeq++
			return fmt.Sprintf("id-%d", idSeq)
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s, kv
}

func TestCreateGroup(t *testing.T) {
	s, _ := newTestStore(t)

	created := s.CreateGroup("Trip", []models.Member{
		{ID: "user1", Name: "You"},
		{ID: "user2", Name: "Bob"},
	}, nil)

	if created.ID == "" {
		t.Fatal("expected group id to be assigned")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt.Time) {
		t.Errorf("CreatedAt %v != UpdatedAt %v on creation", created.CreatedAt, created.UpdatedAt)
	}

	got, ok := s.GroupByID(created.ID)
	if !ok {
		t.Fatal("GroupByID did not find the created group")
	}
	if got.Name != "Trip" || len(got.Members) != 2 {
		t.Errorf("got group %+v", got)
	}
	// Member ids passed to CreateGroup are kept as-is; only AddMember mints.
	if got.Members[0].ID != "user1" || got.Members[1].ID != "user2" {
		t.Errorf("member ids changed: %+v", got.Members)
	}
}

func TestUpdateGroup(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Old", nil, nil)

	name := "New"
	s.UpdateGroup(g.ID, models.GroupPatch{Name: &name})

	got, _ := s.GroupByID(g.ID)
	if got.Name != "New" {
		t.Errorf("name = %q, want New", got.Name)
	}
	if !got.UpdatedAt.After(g.UpdatedAt.Time) {
		t.Errorf("UpdatedAt not refreshed: %v <= %v", got.UpdatedAt, g.UpdatedAt)
	}
	if !got.CreatedAt.Equal(g.CreatedAt.Time) {
		t.Error("CreatedAt must be immutable")
	}
}

func TestDeleteGroup(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Gone", nil, nil)

	s.DeleteGroup(g.ID)
	if _, ok := s.GroupByID(g.ID); ok {
		t.Error("group still present after delete")
	}
	// Deleting again is a no-op.
	s.DeleteGroup(g.ID)
}

func TestAddAndRemoveMember(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Flat", nil, nil)

	s.AddMember(g.ID, models.Member{Name: "Alice"})
	got, _ := s.GroupByID(g.ID)
	if len(got.Members) != 1 {
		t.Fatalf("members = %d, want 1", len(got.Members))
	}
	if got.Members[0].ID == "" {
		t.Error("expected member id to be assigned")
	}

	s.RemoveMember(g.ID, got.Members[0].ID)
	got, _ = s.GroupByID(g.ID)
	if len(got.Members) != 0 {
		t.Errorf("members = %d after removal, want 0", len(got.Members))
	}
}

func TestRemoveMemberLeavesExpensesDangling(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Trip", []models.Member{
		{ID: "user1", Name: "You"},
		{ID: "user2", Name: "Bob"},
	}, nil)
	s.AddExpense(g.ID, models.GroupExpense{
		Name: "Taxi", Amount: 40, PaidBy: "user1",
		SplitBetween: []models.SplitMember{
			{MemberID: "user2", Amount: 40, Settled: false},
		},
	})

	s.RemoveMember(g.ID, "user2")

	got, _ := s.GroupByID(g.ID)
	if len(got.Expenses) != 1 || len(got.Expenses[0].SplitBetween) != 1 {
		t.Fatalf("expense or split was touched by member removal: %+v", got.Expenses)
	}
	// The dangling reference still counts toward the payer.
	if bal := s.GroupBalance(g.ID, "user1"); math.Abs(bal-40) > epsilon {
		t.Errorf("GroupBalance = %v, want 40", bal)
	}
}

func TestAddExpenseClearsSettled(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Trip", nil, nil)

	s.AddExpense(g.ID, models.GroupExpense{Name: "Hotel", Amount: 200, Settled: true})

	got, _ := s.GroupByID(g.ID)
	if len(got.Expenses) != 1 {
		t.Fatalf("expenses = %d, want 1", len(got.Expenses))
	}
	if got.Expenses[0].Settled {
		t.Error("new expenses must start unsettled")
	}
	if got.Expenses[0].ID == "" {
		t.Error("expected expense id to be assigned")
	}
}

func TestUpdateExpense(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Trip", nil, nil)
	s.AddExpense(g.ID, models.GroupExpense{Name: "Hotel", Amount: 200})
	g2, _ := s.GroupByID(g.ID)
	expenseID := g2.Expenses[0].ID

	amount := 250.0
	s.UpdateExpense(g.ID, expenseID, models.GroupExpensePatch{Amount: &amount})

	got, _ := s.GroupByID(g.ID)
	if got.Expenses[0].Amount != 250 {
		t.Errorf("amount = %v, want 250", got.Expenses[0].Amount)
	}
	if got.Expenses[0].Name != "Hotel" {
		t.Error("unpatched field changed")
	}
	if !got.UpdatedAt.After(g2.UpdatedAt.Time) {
		t.Error("UpdatedAt not refreshed by expense update")
	}
}

func TestDeleteExpense(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Trip", nil, nil)
	s.AddExpense(g.ID, models.GroupExpense{Name: "Hotel", Amount: 200})
	g2, _ := s.GroupByID(g.ID)

	s.DeleteExpense(g.ID, g2.Expenses[0].ID)

	got, _ := s.GroupByID(g.ID)
	if len(got.Expenses) != 0 {
		t.Errorf("expenses = %d after delete, want 0", len(got.Expenses))
	}
}

// TestSettleScenario walks the full flow: user1 fronts a 200 hotel bill
// split evenly, their own half already settled. The balance shows 100
// owed; settling user2's half zeroes it and flips the expense settled,
// since the only other split was already paid.
func TestSettleScenario(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Trip", []models.Member{
		{ID: "user1", Name: "You"},
		{ID: "user2", Name: "Bob"},
	}, nil)
	s.AddExpense(g.ID, models.GroupExpense{
		Name: "Hotel", Amount: 200, PaidBy: "user1",
		SplitBetween: []models.SplitMember{
			{MemberID: "user1", Amount: 100, Settled: true},
			{MemberID: "user2", Amount: 100, Settled: false},
		},
	})
	g2, _ := s.GroupByID(g.ID)
	expenseID := g2.Expenses[0].ID

	if bal := s.GroupBalance(g.ID, "user1"); math.Abs(bal-100) > epsilon {
		t.Fatalf("GroupBalance before settle = %v, want 100", bal)
	}

	s.SettleExpenseSplit(g.ID, expenseID, "user2")

	got, _ := s.GroupByID(g.ID)
	e := got.Expenses[0]
	if !e.SplitBetween[1].Settled {
		t.Error("user2's split not settled")
	}
	if !e.Settled {
		t.Error("expense should be settled once every other split is paid")
	}
	if bal := s.GroupBalance(g.ID, "user1"); math.Abs(bal) > epsilon {
		t.Errorf("GroupBalance after settle = %v, want 0", bal)
	}
}

func TestSettleLeavesExpenseOpenWhileOthersUnsettled(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Trip", nil, nil)
	s.AddExpense(g.ID, models.GroupExpense{
		Name: "Dinner", Amount: 90, PaidBy: "user1",
		SplitBetween: []models.SplitMember{
			{MemberID: "user2", Amount: 45, Settled: false},
			{MemberID: "user3", Amount: 45, Settled: false},
		},
	})
	g2, _ := s.GroupByID(g.ID)
	expenseID := g2.Expenses[0].ID

	s.SettleExpenseSplit(g.ID, expenseID, "user2")

	got, _ := s.GroupByID(g.ID)
	e := got.Expenses[0]
	if !e.SplitBetween[0].Settled {
		t.Error("user2's split not settled")
	}
	if e.Settled {
		t.Error("expense settled while user3's split is still open")
	}
}

func TestSettleIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Trip", nil, nil)
	s.AddExpense(g.ID, models.GroupExpense{
		Name: "Hotel", Amount: 200, PaidBy: "user1",
		SplitBetween: []models.SplitMember{
			{MemberID: "user1", Amount: 100, Settled: true},
			{MemberID: "user2", Amount: 100, Settled: false},
		},
	})
	g2, _ := s.GroupByID(g.ID)
	expenseID := g2.Expenses[0].ID

	s.SettleExpenseSplit(g.ID, expenseID, "user2")
	first, _ := s.GroupByID(g.ID)

	s.SettleExpenseSplit(g.ID, expenseID, "user2")
	second, _ := s.GroupByID(g.ID)

	// Identical splits and flags; only UpdatedAt moves on the second call.
	if !reflect.DeepEqual(first.Expenses, second.Expenses) {
		t.Errorf("settle not idempotent:\nfirst:  %+v\nsecond: %+v", first.Expenses, second.Expenses)
	}
	if bal1, bal2 := s.GroupBalance(g.ID, "user1"), s.GroupBalance(g.ID, "user1"); bal1 != bal2 {
		t.Errorf("balances diverge: %v vs %v", bal1, bal2)
	}
}

// TestNoOpOnUnknownIDs pins the silent-tolerance contract: a mutation
// aimed at an id that does not exist leaves the whole store untouched,
// including UpdatedAt.
func TestNoOpOnUnknownIDs(t *testing.T) {
	s, kv := newTestStore(t)
	g := s.CreateGroup("Trip", []models.Member{{ID: "user1", Name: "You"}}, nil)
	s.AddExpense(g.ID, models.GroupExpense{
		Name: "Hotel", Amount: 200, PaidBy: "user1",
		SplitBetween: []models.SplitMember{
			{MemberID: "user2", Amount: 100, Settled: false},
		},
	})
	g2, _ := s.GroupByID(g.ID)
	expenseID := g2.Expenses[0].ID

	before := s.Groups()
	persisted, err := kv.Load(context.Background(), "group-storage")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	name := "nope"
	amount := 1.0
	mutations := map[string]func(){
		"UpdateGroup":               func() { s.UpdateGroup("missing", models.GroupPatch{Name: &name}) },
		"DeleteGroup":               func() { s.DeleteGroup("missing") },
		"AddMember":                 func() { s.AddMember("missing", models.Member{Name: "X"}) },
		"RemoveMember wrong group":  func() { s.RemoveMember("missing", "user1") },
		"RemoveMember wrong member": func() { s.RemoveMember(g.ID, "missing") },
		"AddExpense":                func() { s.AddExpense("missing", models.GroupExpense{Name: "X"}) },
		"UpdateExpense wrong group": func() {
			s.UpdateExpense("missing", expenseID, models.GroupExpensePatch{Amount: &amount})
		},
		"UpdateExpense wrong expense": func() {
			s.UpdateExpense(g.ID, "missing", models.GroupExpensePatch{Amount: &amount})
		},
		"DeleteExpense wrong expense": func() { s.DeleteExpense(g.ID, "missing") },
		"Settle wrong group":          func() { s.SettleExpenseSplit("missing", expenseID, "user2") },
		"Settle wrong expense":        func() { s.SettleExpenseSplit(g.ID, "missing", "user2") },
		"Settle wrong member":         func() { s.SettleExpenseSplit(g.ID, expenseID, "missing") },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			mutate()
			after := s.Groups()
			if !reflect.DeepEqual(before, after) {
				t.Errorf("store state changed:\nbefore: %+v\nafter:  %+v", before, after)
			}
			afterPersisted, err := kv.Load(context.Background(), "group-storage")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if string(persisted) != string(afterPersisted) {
				t.Error("no-op mutation triggered a persistence write")
			}
		})
	}
}

func TestUpdatedAtMonotonic(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Trip", nil, nil)
	prev := g.UpdatedAt

	steps := []func(){
		func() { s.AddMember(g.ID, models.Member{Name: "Alice"}) },
		func() { s.AddExpense(g.ID, models.GroupExpense{Name: "Hotel", Amount: 10}) },
		func() {
			name := "Trip 2"
			s.UpdateGroup(g.ID, models.GroupPatch{Name: &name})
		},
	}
	for i, step := range steps {
		step()
		got, _ := s.GroupByID(g.ID)
		if !got.UpdatedAt.After(prev.Time) {
			t.Fatalf("step %d: UpdatedAt %v not after %v", i, got.UpdatedAt, prev)
		}
		prev = got.UpdatedAt
	}
}

func TestQueriesReturnCopies(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.CreateGroup("Trip", []models.Member{{ID: "user1", Name: "You"}}, nil)

	got, _ := s.GroupByID(g.ID)
	got.Members[0].Name = "Hacked"
	got.Name = "Hacked"

	again, _ := s.GroupByID(g.ID)
	if again.Name != "Trip" || again.Members[0].Name != "You" {
		t.Error("mutating a query result leaked into the store")
	}
}

// TestReloadRoundTrip persists through mutations, then hydrates a second
// store from the same storage and expects an identical document.
func TestReloadRoundTrip(t *testing.T) {
	s, kv := newTestStore(t)
	g := s.CreateGroup("Trip", []models.Member{
		{ID: "user1", Name: "You"},
		{ID: "user2", Name: "Bob", Email: "bob@example.com"},
	}, nil)
	s.AddExpense(g.ID, models.GroupExpense{
		Name: "Hotel", Description: "two nights", Amount: 200, PaidBy: "user1",
		Date: models.NewTime(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		SplitBetween: []models.SplitMember{
			{MemberID: "user1", Amount: 100, Settled: true},
			{MemberID: "user2", Amount: 100, Settled: false},
		},
	})

	reloaded, err := New(context.Background(), kv, persist.Direct{Store: kv, Metrics: metrics.Nop()}, metrics.Nop(), Options{})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	want, _ := json.Marshal(s.Groups())
	got, _ := json.Marshal(reloaded.Groups())
	if string(want) != string(got) {
		t.Errorf("reloaded state differs:\nwant: %s\ngot:  %s", want, got)
	}

	if bal := reloaded.GroupBalance(g.ID, "user1"); math.Abs(bal-100) > epsilon {
		t.Errorf("balance after reload = %v, want 100", bal)
	}
}

// TestLoadsOriginalDocument pins compatibility with documents written by
// earlier versions of the app: bare dates and full ISO timestamps both
// load.
func TestLoadsOriginalDocument(t *testing.T) {
	kv := memory.New()
	doc := `{"groups":[{
		"id":"1",
		"name":"Roommates",
		"members":[{"id":"user1","name":"You"},{"id":"user2","name":"Alex"}],
		"expenses":[{
			"id":"101","name":"Groceries","description":"","amount":85.3,
			"date":"2025-05-01","paidBy":"user1",
			"splitBetween":[
				{"memberId":"user1","amount":42.65,"settled":true},
				{"memberId":"user2","amount":42.65,"settled":false}
			],
			"settled":false
		}],
		"createdAt":"2025-04-01T10:00:00.000Z",
		"updatedAt":"2025-05-15"
	}]}`
	if err := kv.Save(context.Background(), "group-storage", []byte(doc)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s, err := New(context.Background(), kv, persist.Direct{Store: kv, Metrics: metrics.Nop()}, metrics.Nop(), Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if owed := s.TotalOwedToUser("user1"); math.Abs(owed-42.65) > epsilon {
		t.Errorf("TotalOwedToUser = %v, want 42.65", owed)
	}
	g, ok := s.GroupByID("1")
	if !ok {
		t.Fatal("group not loaded")
	}
	if g.Expenses[0].Date.Year() != 2025 || g.Expenses[0].Date.Month() != time.May {
		t.Errorf("date parsed wrong: %v", g.Expenses[0].Date)
	}
}
