package ledger

import "github.com/Aryan-Srivastava/expense-tracker/internal/models"

// Copy helpers. Groups own their member and expense slices exclusively, so
// everything crossing the store boundary is copied in both directions.

func cloneGroup(g models.Group) models.Group {
	g.Members = cloneMembers(g.Members)
	g.Expenses = cloneExpenses(g.Expenses)
	return g
}

func cloneMembers(members []models.Member) []models.Member {
	if members == nil {
		return nil
	}
	out := make([]models.Member, len(members))
	copy(out, members)
	return out
}

func cloneExpenses(expenses []models.GroupExpense) []models.GroupExpense {
	if expenses == nil {
		return nil
	}
	out := make([]models.GroupExpense, len(expenses))
	for i, e := range expenses {
		e.SplitBetween = cloneSplits(e.SplitBetween)
		out[i] = e
	}
	return out
}

func cloneSplits(splits []models.SplitMember) []models.SplitMember {
	if splits == nil {
		return nil
	}
	out := make([]models.SplitMember, len(splits))
	copy(out, splits)
	return out
}
