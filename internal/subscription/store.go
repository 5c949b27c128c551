// Package subscription implements the subscription monitoring store:
// recurring charges normalized across billing cycles, with the upcoming-
// renewal window the reminder views are built from.
package subscription

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

// document is the persisted shape under storage.KeySubscriptions.
type document struct {
	Subscriptions []models.Subscription `json:"subscriptions"`
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

// Store owns the subscription collection.
type Store struct {
	mu            sync.Mutex
	subscriptions []models.Subscription

	saver   persist.Saver
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// New hydrates a Store from kv; a missing document yields an empty store.
func New(ctx context.Context, kv storage.Store, saver persist.Saver, m *metrics.Metrics, opts Options) (*Store, error) {
	opts.fill()
	s := &Store{saver: saver, metrics: m, now: opts.Now, newID: opts.NewID}

	data, err := kv.Load(ctx, storage.KeySubscriptions)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode subscription document: %w", err)
	}
	s.subscriptions = doc.Subscriptions
	slog.Info("subscriptions loaded", "count", len(s.subscriptions))
	return s, nil
}

// Add assigns a fresh id and appends the subscription, returning the
// stored copy.
func (s *Store) Add(sub models.Subscription) models.Subscription {
	s.metrics.MutationsTotal.WithLabelValues("subscription", "add").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	sub.ID = s.newID()
	s.subscriptions = append(s.subscriptions, sub)
	s.persistLocked()
	slog.Info("subscription added", "subscription_id", sub.ID, "name", sub.Name, "cycle", sub.Cycle)
	return sub
}

// Update merges the patch into the subscription with the given id.
// Unknown id: no-op.
func (s *Store) Update(id string, patch models.SubscriptionPatch) {
	s.metrics.MutationsTotal.WithLabelValues("subscription", "update").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.subscriptions {
		if s.subscriptions[i].ID == id {
			s.subscriptions[i].Apply(patch)
			s.persistLocked()
			slog.Info("subscription updated", "subscription_id", id)
			return
		}
	}
	slog.Debug("update for unknown subscription ignored", "subscription_id", id)
}

// Delete removes the subscription with the given id. Unknown id: no-op.
func (s *Store) Delete(id string) {
	s.metrics.MutationsTotal.WithLabelValues("subscription", "delete").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.subscriptions {
		if s.subscriptions[i].ID == id {
			s.subscriptions = append(s.subscriptions[:i], s.subscriptions[i+1:]...)
			s.persistLocked()
			slog.Info("subscription deleted", "subscription_id", id)
			return
		}
	}
}

// ByID returns the subscription with the given id.
func (s *Store) ByID(id string) (models.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscriptions {
		if sub.ID == id {
			return sub, true
		}
	}
	return models.Subscription{}, false
}

// Subscriptions returns a copy of all subscriptions in insertion order.
func (s *Store) Subscriptions() []models.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Subscription, len(s.subscriptions))
	copy(out, s.subscriptions)
	return out
}

// MonthlyTotal is the combined per-month cost of every subscription.
func (s *Store) MonthlyTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, sub := range s.subscriptions {
		total += sub.MonthlyAmount()
	}
	return total
}

// YearlyTotal is the combined per-year cost of every subscription.
func (s *Store) YearlyTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, sub := range s.subscriptions {
		total += sub.YearlyAmount()
	}
	return total
}

// MonthlyTotalsByCategory sums normalized monthly costs per category.
func (s *Store) MonthlyTotalsByCategory() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := make(map[string]float64)
	for _, sub := range s.subscriptions {
		totals[sub.Category] += sub.MonthlyAmount()
	}
	return totals
}

// Upcoming returns subscriptions whose next billing date falls within the
// next `days` days, inclusive of today.
func (s *Store) Upcoming(days int) []models.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now()
	cutoff := today.AddDate(0, 0, days)
	var out []models.Subscription
	for _, sub := range s.subscriptions {
		next := sub.NextBillingDate.Time
		if !next.Before(today) && !next.After(cutoff) {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(document{Subscriptions: s.subscriptions})
	if err != nil {
		slog.Error("failed to encode subscription document", "error", err)
		return
	}
	s.saver.Enqueue(storage.KeySubscriptions, data)
}
