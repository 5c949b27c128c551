package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
)

// SummaryCmd prints the overall financial position: group debts in both
// directions, subscription run rate and portfolio performance.
type SummaryCmd struct {
	app *App
}

// NewSummaryCmd returns the summary subcommand.
func NewSummaryCmd(app *App) *SummaryCmd { return &SummaryCmd{app: app} }

func (*SummaryCmd) Name() string     { return "summary" }
func (*SummaryCmd) Synopsis() string { return "show balances, subscriptions and portfolio at a glance" }
func (*SummaryCmd) Usage() string {
	return `summary

  Prints what others owe you, what you owe, this month's spending
  against your limit, your subscription run rate and the portfolio
  profit/loss.
`
}

func (c *SummaryCmd) SetFlags(*flag.FlagSet) {}

func (c *SummaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := c.app.Config
	cur := c.app.Settings.Settings().Currency
	if cur == "" {
		cur = cfg.Currency
	}

	owed := c.app.Ledger.TotalOwedToUser(cfg.CurrentUserID)
	owes := c.app.Ledger.TotalUserOwes(cfg.CurrentUserID)

	fmt.Println("Group balances")
	fmt.Printf("  owed to you: %s\n", formatAmount(owed, cur))
	fmt.Printf("  you owe:     %s\n", formatAmount(owes, cur))
	fmt.Printf("  net:         %s\n", formatAmount(owed-owes, cur))

	now := time.Now()
	var spent float64
	for _, e := range c.app.Expenses.MonthlyExpenses(now.Month(), now.Year()) {
		spent += e.Amount
	}
	fmt.Println("Spending")
	fmt.Printf("  this month: %s", formatAmount(spent, cur))
	if limit := c.app.Settings.Settings().MonthlyExpenseLimit; limit > 0 {
		fmt.Printf(" of %s limit", formatAmount(limit, cur))
	}
	fmt.Println()

	fmt.Println("Subscriptions")
	fmt.Printf("  monthly: %s\n", formatAmount(c.app.Subscriptions.MonthlyTotal(), cur))
	fmt.Printf("  yearly:  %s\n", formatAmount(c.app.Subscriptions.YearlyTotal(), cur))

	fmt.Println("Investments")
	fmt.Printf("  value: %s\n", formatAmount(c.app.Investments.TotalValue(), cur))
	fmt.Printf("  cost:  %s\n", formatAmount(c.app.Investments.TotalCost(), cur))
	fmt.Printf("  p/l:   %s (%.2f%%)\n",
		formatAmount(c.app.Investments.TotalProfitLoss(), cur),
		c.app.Investments.ProfitLossPercent())

	return subcommands.ExitSuccess
}
