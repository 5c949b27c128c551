// Package settings implements the user settings store.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Aryan-Srivastava/expense-tracker/internal/metrics"
	"github.com/Aryan-Srivastava/expense-tracker/internal/models"
	"github.com/Aryan-Srivastava/expense-tracker/internal/persist"
	"github.com/Aryan-Srivastava/expense-tracker/internal/storage"
)

// document is the persisted shape under storage.KeySettings.
type document struct {
	Settings models.Settings `json:"settings"`
}

// Store owns the single Settings value.
type Store struct {
	mu       sync.Mutex
	settings models.Settings

	saver   persist.Saver
	metrics *metrics.Metrics
}

// New hydrates a Store from kv; a missing document yields the defaults.
func New(ctx context.Context, kv storage.Store, saver persist.Saver, m *metrics.Metrics) (*Store, error) {
	s := &Store{settings: models.DefaultSettings(), saver: saver, metrics: m}

	data, err := kv.Load(ctx, storage.KeySettings)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode settings document: %w", err)
	}
	s.settings = doc.Settings
	return s, nil
}

// Settings returns the current settings.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Update merges the patch into the settings.
func (s *Store) Update(patch models.SettingsPatch) {
	s.metrics.MutationsTotal.WithLabelValues("settings", "update").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Apply(patch)
	s.persistLocked()
	slog.Info("settings updated")
}

// Reset restores the default settings.
func (s *Store) Reset() {
	s.metrics.MutationsTotal.WithLabelValues("settings", "reset").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = models.DefaultSettings()
	s.persistLocked()
	slog.Info("settings reset to defaults")
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(document{Settings: s.settings})
	if err != nil {
		slog.Error("failed to encode settings document", "error", err)
		return
	}
	s.saver.Enqueue(storage.KeySettings, data)
}
