package models

// InvestmentType classifies a holding.
type InvestmentType string

const (
	InvestmentStock      InvestmentType = "stock"
	InvestmentMutualFund InvestmentType = "mutual_fund"
	InvestmentCrypto     InvestmentType = "crypto"
	InvestmentOther      InvestmentType = "other"
)

// Investment is a tracked holding. Prices are per unit; Quantity may be
// fractional (crypto).
type Investment struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Type          InvestmentType `json:"type"`
	PurchasePrice float64        `json:"purchasePrice"`
	CurrentPrice  float64        `json:"currentPrice"`
	Quantity      float64        `json:"quantity"`
	PurchaseDate  Time           `json:"purchaseDate"`
	Notes         string         `json:"notes,omitempty"`
}

// Value is the holding's worth at the current price.
func (i Investment) Value() float64 { return i.CurrentPrice * i.Quantity }

// Cost is the holding's purchase cost.
func (i Investment) Cost() float64 { return i.PurchasePrice * i.Quantity }

// InvestmentPatch is a partial update to an investment.
type InvestmentPatch struct {
	Name          *string
	Type          *InvestmentType
	PurchasePrice *float64
	CurrentPrice  *float64
	Quantity      *float64
	PurchaseDate  *Time
	Notes         *string
}

// Apply merges the patch into the investment.
func (i *Investment) Apply(p InvestmentPatch) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Type != nil {
		i.Type = *p.Type
	}
	if p.PurchasePrice != nil {
		i.PurchasePrice = *p.PurchasePrice
	}
	if p.CurrentPrice != nil {
		i.CurrentPrice = *p.CurrentPrice
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.PurchaseDate != nil {
		i.PurchaseDate = *p.PurchaseDate
	}
	if p.Notes != nil {
		i.Notes = *p.Notes
	}
}
