// Package calculator computes settlement balances over ledger snapshots.
//
// All functions are pure: they take the groups as-is plus the id of the
// user the balance is computed for, and never mutate their inputs. Sums
// run in insertion order of groups, expenses and splits so results are
// reproducible. Settled splits are filtered out before summing; they never
// appear as a term that is later subtracted.
//
// Dangling member references are fine by construction: the functions only
// compare ids, so a split pointing at a removed member simply keeps
// counting toward whoever fronted the expense.
package calculator

import "github.com/Aryan-Srivastava/expense-tracker/internal/models"

// TotalOwedToUser sums what others still owe userID: across every group,
// for each expense userID paid, the unsettled shares of everyone else.
// Self-splits (userID's own share of an expense they paid) are excluded —
// you cannot owe yourself.
func TotalOwedToUser(groups []models.Group, userID string) float64 {
	var total float64
	for _, group := range groups {
		for _, expense := range group.Expenses {
			if expense.PaidBy != userID {
				continue
			}
			for _, split := range expense.SplitBetween {
				if split.MemberID != userID && !split.Settled {
					total += split.Amount
				}
			}
		}
	}
	return total
}

// TotalUserOwes sums what userID still owes others: across every group,
// for each expense someone else paid, userID's own unsettled share.
func TotalUserOwes(groups []models.Group, userID string) float64 {
	var total float64
	for _, group := range groups {
		for _, expense := range group.Expenses {
			if expense.PaidBy == userID {
				continue
			}
			for _, split := range expense.SplitBetween {
				if split.MemberID == userID && !split.Settled {
					total += split.Amount
				}
			}
		}
	}
	return total
}

// GroupBalance nets userID's position within one group: unsettled amounts
// owed to them on expenses they paid, minus their own unsettled shares on
// expenses paid by others. Positive means the group owes the user.
func GroupBalance(group models.Group, userID string) float64 {
	var balance float64
	for _, expense := range group.Expenses {
		if expense.PaidBy == userID {
			for _, split := range expense.SplitBetween {
				if split.MemberID != userID && !split.Settled {
					balance += split.Amount
				}
			}
		} else {
			for _, split := range expense.SplitBetween {
				if split.MemberID == userID && !split.Settled {
					balance -= split.Amount
				}
			}
		}
	}
	return balance
}
