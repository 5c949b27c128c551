package models

// Expense is a personal (non-group) expense entry.
type Expense struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        Time    `json:"date"`

	// Tag is a free-form label ("work", "vacation", ...).
	Tag string `json:"tag"`

	// Category is the spending category ("food", "transport", ...).
	Category string `json:"category"`
}

// ExpensePatch is a partial update to a personal expense.
type ExpensePatch struct {
	Name        *string
	Description *string
	Amount      *float64
	Date        *Time
	Tag         *string
	Category    *string
}

// Apply merges the patch into the expense.
func (e *Expense) Apply(p ExpensePatch) {
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
	if p.Tag != nil {
		e.Tag = *p.Tag
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
}
