package models

// Member is a participant in a group.
//
// IDs are unique within the owning group's member list only. The same
// person may carry different IDs in different groups; the one exception is
// the configured current-user ID, which is reused across every group the
// local user belongs to.
type Member struct {
	// ID is the identifier of the member within its group.
	ID string `json:"id"`

	// Name is the display name of the member.
	Name string `json:"name"`

	// Avatar is an optional image URL.
	Avatar string `json:"avatar,omitempty"`

	// Email is optional contact information.
	Email string `json:"email,omitempty"`
}

// SplitMember is one line item of a GroupExpense: this member owes Amount
// toward the expense, and Settled records whether that obligation has been
// marked paid.
//
// The amounts of an expense's splits are expected to sum to the expense
// total, but that is an input-time concern of the caller. Readers sum
// whatever is present.
type SplitMember struct {
	// MemberID references a Member of the owning group. The reference is
	// weak: the member may have since been removed.
	MemberID string `json:"memberId"`

	// Amount is this member's share, in the expense's currency.
	Amount float64 `json:"amount"`

	// Settled reports whether this share has been paid back.
	Settled bool `json:"settled"`
}

// GroupExpense is one shared cost inside a group.
type GroupExpense struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Amount is the total cost of the expense.
	Amount float64 `json:"amount"`

	// Date is when the expense happened.
	Date Time `json:"date"`

	// PaidBy is the ID of the member who fronted the money.
	PaidBy string `json:"paidBy"`

	// SplitBetween lists each member's share of the expense.
	SplitBetween []SplitMember `json:"splitBetween"`

	// Settled is a cached flag maintained by the ledger store's settle
	// operation; see ledger.Store.SettleExpenseSplit for its update rule.
	Settled bool `json:"settled"`
}

// Group is the aggregate root of the ledger: a named set of members and
// the expenses they share. A group exclusively owns its members and
// expenses; nothing is shared by reference across groups.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Members  []Member       `json:"members"`
	Expenses []GroupExpense `json:"expenses"`

	// CreatedAt is set once at creation.
	CreatedAt Time `json:"createdAt"`

	// UpdatedAt is refreshed by every mutation that touches the group.
	// Consumers sort on it for "recently active".
	UpdatedAt Time `json:"updatedAt"`
}

// GroupPatch is a partial update to a group's own fields. Nil fields are
// left unchanged.
type GroupPatch struct {
	Name     *string
	Members  *[]Member
	Expenses *[]GroupExpense
}

// Apply merges the patch into the group. Timestamps are the caller's
// responsibility.
func (g *Group) Apply(p GroupPatch) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Members != nil {
		g.Members = *p.Members
	}
	if p.Expenses != nil {
		g.Expenses = *p.Expenses
	}
}

// GroupExpensePatch is a partial update to a group expense.
type GroupExpensePatch struct {
	Name         *string
	Description  *string
	Amount       *float64
	Date         *Time
	PaidBy       *string
	SplitBetween *[]SplitMember
	Settled      *bool
}

// Apply merges the patch into the expense.
func (e *GroupExpense) Apply(p GroupExpensePatch) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.PaidBy != nil {
		e.PaidBy = *p.PaidBy
	}
	if p.SplitBetween != nil {
		e.SplitBetween = *p.SplitBetween
	}
	if p.Settled != nil {
		e.Settled = *p.Settled
	}
}

// MemberByID resolves a member reference within the group. The second
// return is false for dangling references.
func (g *Group) MemberByID(id string) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}
