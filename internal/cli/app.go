// Package cli wires the tracker stores together behind a set of
// subcommands. It contains no business logic: every command reads and
// mutates through the store APIs exactly as a UI shell would.
package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aryan-Srivastava/expense-tracker/internal/config"
	"github.com/Aryan-Srivastava/expense-tracker/internal/expense"
	"github.com/Aryan-Srivastava/expense-tracker/internal/investment"
	"github.com/Aryan-Srivastava/expense-tracker/internal/ledger"
	"github.com/Aryan-Srivastava/expense-tracker/internal/metrics"
	"github.com/Aryan-Srivastava/expense-tracker/internal/persist"
	"github.com/Aryan-Srivastava/expense-tracker/internal/settings"
	"github.com/Aryan-Srivastava/expense-tracker/internal/storage"
	"github.com/Aryan-Srivastava/expense-tracker/internal/storage/sqlite"
	"github.com/Aryan-Srivastava/expense-tracker/internal/subscription"
)

// persistBuffer is the number of in-flight document writes the background
// worker will hold before dropping.
const persistBuffer = 64

// App holds the hydrated stores and their shared infrastructure.
type App struct {
	Config        *config.Config
	Ledger        *ledger.Store
	Expenses      *expense.Store
	Investments   *investment.Store
	Subscriptions *subscription.Store
	Settings      *settings.Store

	kv     storage.Store
	worker *persist.Worker
}

// NewApp opens the database, starts the persistence worker and hydrates
// every store.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	kv, err := sqlite.New(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	worker := persist.NewWorker(kv, m, persistBuffer)
	worker.Start()

	app := &App{Config: cfg, kv: kv, worker: worker}

	if app.Ledger, err = ledger.New(ctx, kv, worker, m, ledger.Options{}); err != nil {
		app.Close()
		return nil, err
	}
	if app.Expenses, err = expense.New(ctx, kv, worker, m, expense.Options{}); err != nil {
		app.Close()
		return nil, err
	}
	if app.Investments, err = investment.New(ctx, kv, worker, m, investment.Options{}); err != nil {
		app.Close()
		return nil, err
	}
	if app.Subscriptions, err = subscription.New(ctx, kv, worker, m, subscription.Options{}); err != nil {
		app.Close()
		return nil, err
	}
	if app.Settings, err = settings.New(ctx, kv, worker, m); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// Close drains pending writes and releases the database.
func (a *App) Close() {
	a.worker.Shutdown()
	a.kv.Close()
}
