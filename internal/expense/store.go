// Package expense implements the personal expense store: individual
// (non-group) expenses with tag/category labels, plus the filters and
// aggregations the summary views are built from.
//
// Mutations follow the ledger contract: unknown ids are silent no-ops and
// every effective change enqueues a persistence write.
package expense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Aryan-Srivastava/expense-tracker/internal/metrics"
	"github.com/Aryan-Srivastava/expense-tracker/internal/models"
	"github.com/Aryan-Srivastava/expense-tracker/internal/persist"
	"github.com/Aryan-Srivastava/expense-tracker/internal/storage"
)

// document is the persisted shape under storage.KeyExpenses.
type document struct {
	Expenses []models.Expense `json:"expenses"`
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

// Store owns the personal expense collection.
type Store struct {
	mu       sync.Mutex
	expenses []models.Expense

	saver   persist.Saver
	metrics *metrics.Metrics
	newID   func() string
}

// New hydrates a Store from kv; a missing document yields an empty store.
func New(ctx context.Context, kv storage.Store, saver persist.Saver, m *metrics.Metrics, opts Options) (*Store, error) {
	opts.fill()
	s := &Store{saver: saver, metrics: m, newID: opts.NewID}

	data, err := kv.Load(ctx, storage.KeyExpenses)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode expense document: %w", err)
	}
	s.expenses = doc.Expenses
	slog.Info("expenses loaded", "count", len(s.expenses))
	return s, nil
}

// Add assigns a fresh id and appends the expense, returning the stored
// copy.
func (s *Store) Add(e models.Expense) models.Expense {
	s.metrics.MutationsTotal.WithLabelValues("expense", "add").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.newID()
	s.expenses = append(s.expenses, e)
	s.persistLocked()
	slog.Info("expense recorded", "expense_id", e.ID, "amount", e.Amount, "category", e.Category)
	return e
}

// Update merges the patch into the expense with the given id. Unknown id:
// no-op.
func (s *Store) Update(id string, patch models.ExpensePatch) {
	s.metrics.MutationsTotal.WithLabelValues("expense", "update").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses[i].Apply(patch)
			s.persistLocked()
			slog.Info("expense updated", "expense_id", id)
			return
		}
	}
	slog.Debug("update for unknown expense ignored", "expense_id", id)
}

// Delete removes the expense with the given id. Unknown id: no-op.
func (s *Store) Delete(id string) {
	s.metrics.MutationsTotal.WithLabelValues("expense", "delete").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			s.persistLocked()
			slog.Info("expense deleted", "expense_id", id)
			return
		}
	}
}

// ByID returns the expense with the given id.
func (s *Store) ByID(id string) (models.Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, true
		}
	}
	return models.Expense{}, false
}

// Expenses returns a copy of all expenses in insertion order.
func (s *Store) Expenses() []models.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// FilterByTag returns expenses carrying the exact tag.
func (s *Store) FilterByTag(tag string) []models.Expense {
	return s.filter(func(e models.Expense) bool { return e.Tag == tag })
}

// FilterByCategory returns expenses in the exact category.
func (s *Store) FilterByCategory(category string) []models.Expense {
	return s.filter(func(e models.Expense) bool { return e.Category == category })
}

// FilterByDateRange returns expenses dated within [start, end], inclusive.
func (s *Store) FilterByDateRange(start, end models.Time) []models.Expense {
	return s.filter(func(e models.Expense) bool {
		return !e.Date.Before(start.Time) && !e.Date.After(end.Time)
	})
}

// Search returns expenses whose name, description, tag or category
// contains the query, case-insensitively.
func (s *Store) Search(query string) []models.Expense {
	q := strings.ToLower(query)
	return s.filter(func(e models.Expense) bool {
		return strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Description), q) ||
			strings.Contains(strings.ToLower(e.Tag), q) ||
			strings.Contains(strings.ToLower(e.Category), q)
	})
}

// Total sums expense amounts, optionally bounded by start and/or end
// dates (zero Time means unbounded on that side).
func (s *Store) Total(start, end models.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, e := range s.expenses {
		if !start.IsZero() && e.Date.Before(start.Time) {
			continue
		}
		if !end.IsZero() && e.Date.After(end.Time) {
			continue
		}
		total += e.Amount
	}
	return total
}

// TotalsByCategory sums amounts per category.
func (s *Store) TotalsByCategory() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := make(map[string]float64)
	for _, e := range s.expenses {
		totals[e.Category] += e.Amount
	}
	return totals
}

// TotalsByTag sums amounts per tag.
func (s *Store) TotalsByTag() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := make(map[string]float64)
	for _, e := range s.expenses {
		totals[e.Tag] += e.Amount
	}
	return totals
}

// MonthlyExpenses returns the expenses of a given month.
func (s *Store) MonthlyExpenses(month time.Month, year int) []models.Expense {
	return s.filter(func(e models.Expense) bool {
		return e.Date.Month() == month && e.Date.Year() == year
	})
}

func (s *Store) filter(keep func(models.Expense) bool) []models.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Expense
	for _, e := range s.expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(document{Expenses: s.expenses})
	if err != nil {
		slog.Error("failed to encode expense document", "error", err)
		return
	}
	s.saver.Enqueue(storage.KeyExpenses, data)
}
