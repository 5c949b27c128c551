package models

// BillingCycle is how often a subscription renews.
type BillingCycle string

const (
	CycleMonthly   BillingCycle = "monthly"
	CycleYearly    BillingCycle = "yearly"
	CycleWeekly    BillingCycle = "weekly"
	CycleQuarterly BillingCycle = "quarterly"
)

// Subscription is a recurring charge being monitored.
type Subscription struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Amount      float64      `json:"amount"`
	Cycle       BillingCycle `json:"cycle"`
	StartDate   Time         `json:"startDate"`

	// NextBillingDate drives the upcoming-renewals view.
	NextBillingDate Time   `json:"nextBillingDate"`
	Category        string `json:"category"`
	Icon            string `json:"icon,omitempty"`
}

// MonthlyAmount normalizes the subscription's cost to a per-month figure.
// Unknown cycles contribute zero.
func (s Subscription) MonthlyAmount() float64 {
	switch s.Cycle {
	case CycleMonthly:
		return s.Amount
	case CycleYearly:
		return s.Amount / 12
	case CycleWeekly:
		return s.Amount * 52 / 12
	case CycleQuarterly:
		return s.Amount / 3
	}
	return 0
}

// YearlyAmount normalizes the subscription's cost to a per-year figure.
// Unknown cycles contribute zero.
func (s Subscription) YearlyAmount() float64 {
	switch s.Cycle {
	case CycleMonthly:
		return s.Amount * 12
	case CycleYearly:
		return s.Amount
	case CycleWeekly:
		return s.Amount * 52
	case CycleQuarterly:
		return s.Amount * 4
	}
	return 0
}

// SubscriptionPatch is a partial update to a subscription.
type SubscriptionPatch struct {
	Name            *string
	Description     *string
	Amount          *float64
	Cycle           *BillingCycle
	StartDate       *Time
	NextBillingDate *Time
	Category        *string
	Icon            *string
}

// Apply merges the patch into the subscription.
func (s *Subscription) Apply(p SubscriptionPatch) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	if p.Cycle != nil {
		s.Cycle = *p.Cycle
	}
	if p.StartDate != nil {
		s.StartDate = *p.StartDate
	}
	if p.NextBillingDate != nil {
		s.NextBillingDate = *p.NextBillingDate
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Icon != nil {
		s.Icon = *p.Icon
	}
}
