// Package investment implements the investment tracking store: holdings
// with purchase and current prices, and the portfolio-level profit/loss
// arithmetic.
package investment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Aryan-Srivastava/expense-tracker/internal/metrics"
	"github.com/Aryan-Srivastava/expense-tracker/internal/models"
	"github.com/Aryan-Srivastava/expense-tracker/internal/persist"
	"github.com/Aryan-Srivastava/expense-tracker/internal/storage"
)

// document is the persisted shape under storage.KeyInvestments.
type document struct {
	Investments []models.Investment `json:"investments"`
}

// Options overrides the store's clock and id generation.
type Options struct {
	Now   func() time.Time
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

// Store owns the investment collection.
type Store struct {
	mu          sync.Mutex
	investments []models.Investment

	saver   persist.Saver
	metrics *metrics.Metrics
	newID   func() string
}

// New hydrates a Store from kv; a missing document yields an empty store.
func New(ctx context.Context, kv storage.Store, saver persist.Saver, m *metrics.Metrics, opts Options) (*Store, error) {
	opts.fill()
	s := &Store{saver: saver, metrics: m, newID: opts.NewID}

	data, err := kv.Load(ctx, storage.KeyInvestments)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load investments: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode investment document: %w", err)
	}
	s.investments = doc.Investments
	slog.Info("investments loaded", "count", len(s.investments))
	return s, nil
}

// Add assigns a fresh id and appends the holding, returning the stored
// copy.
func (s *Store) Add(inv models.Investment) models.Investment {
	s.metrics.MutationsTotal.WithLabelValues("investment", "add").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	inv.ID = s.newID()
	s.investments = append(s.investments, inv)
	s.persistLocked()
	slog.Info("investment added", "investment_id", inv.ID, "name", inv.Name, "type", inv.Type)
	return inv
}

// Update merges the patch into the holding with the given id. Unknown id:
// no-op.
func (s *Store) Update(id string, patch models.InvestmentPatch) {
	s.metrics.MutationsTotal.WithLabelValues("investment", "update").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.investments {
		if s.investments[i].ID == id {
			s.investments[i].Apply(patch)
			s.persistLocked()
			slog.Info("investment updated", "investment_id", id)
			return
		}
	}
	slog.Debug("update for unknown investment ignored", "investment_id", id)
}

// Delete removes the holding with the given id. Unknown id: no-op.
func (s *Store) Delete(id string) {
	s.metrics.MutationsTotal.WithLabelValues("investment", "delete").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.investments {
		if s.investments[i].ID == id {
			s.investments = append(s.investments[:i], s.investments[i+1:]...)
			s.persistLocked()
			slog.Info("investment deleted", "investment_id", id)
			return
		}
	}
}

// ByID returns the holding with the given id.
func (s *Store) ByID(id string) (models.Investment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byIDLocked(id)
}

// Investments returns a copy of all holdings in insertion order.
func (s *Store) Investments() []models.Investment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Investment, len(s.investments))
	copy(out, s.investments)
	return out
}

// TotalValue is the portfolio's worth at current prices.
func (s *Store) TotalValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, inv := range s.investments {
		total += inv.Value()
	}
	return total
}

// TotalCost is the portfolio's purchase cost.
func (s *Store) TotalCost() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, inv := range s.investments {
		total += inv.Cost()
	}
	return total
}

// TotalProfitLoss is value minus cost across the portfolio.
func (s *Store) TotalProfitLoss() float64 {
	return s.TotalValue() - s.TotalCost()
}

// ProfitLossPercent is the portfolio gain as a percentage of cost.
// Zero cost yields 0.
func (s *Store) ProfitLossPercent() float64 {
	cost := s.TotalCost()
	if cost == 0 {
		return 0
	}
	return (s.TotalValue() - cost) / cost * 100
}

// HoldingProfitLoss is one holding's gain. Unknown id yields 0.
func (s *Store) HoldingProfitLoss(id string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.byIDLocked(id)
	if !ok {
		return 0
	}
	return (inv.CurrentPrice - inv.PurchasePrice) * inv.Quantity
}

// HoldingProfitLossPercent is one holding's gain as a percentage of its
// purchase price. Unknown id or zero purchase price yields 0.
func (s *Store) HoldingProfitLossPercent(id string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.byIDLocked(id)
	if !ok || inv.PurchasePrice == 0 {
		return 0
	}
	return (inv.CurrentPrice - inv.PurchasePrice) / inv.PurchasePrice * 100
}

// FilterByType returns holdings of the given type.
func (s *Store) FilterByType(t models.InvestmentType) []models.Investment {
	return s.filter(func(inv models.Investment) bool { return inv.Type == t })
}

// FilterByProfitability returns the profitable holdings (gain > 0) when
// profitable is true, otherwise the rest.
func (s *Store) FilterByProfitability(profitable bool) []models.Investment {
	return s.filter(func(inv models.Investment) bool {
		gain := (inv.CurrentPrice - inv.PurchasePrice) * inv.Quantity
		if profitable {
			return gain > 0
		}
		return gain <= 0
	})
}

func (s *Store) byIDLocked(id string) (models.Investment, bool) {
	for _, inv := range s.investments {
		if inv.ID == id {
			return inv, true
		}
	}
	return models.Investment{}, false
}

func (s *Store) filter(keep func(models.Investment) bool) []models.Investment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Investment
	for _, inv := range s.investments {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	return out
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(document{Investments: s.investments})
	if err != nil {
		slog.Error("failed to encode investment document", "error", err)
		return
	}
	s.saver.Enqueue(storage.KeyInvestments, data)
}
