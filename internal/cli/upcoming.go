package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// UpcomingCmd lists subscriptions renewing soon.
type UpcomingCmd struct {
	app  *App
	days int
}

// NewUpcomingCmd returns the upcoming subcommand.
func NewUpcomingCmd(app *App) *UpcomingCmd { return &UpcomingCmd{app: app} }

func (*UpcomingCmd) Name() string     { return "upcoming" }
func (*UpcomingCmd) Synopsis() string { return "list subscriptions renewing within a window" }
func (*UpcomingCmd) Usage() string {
	return `upcoming [-days <n>]

  Lists subscriptions whose next billing date falls within the next n
  days (default 30).
`
}

func (c *UpcomingCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 30, "Window size in days")
}

func (c *UpcomingCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cur := c.app.Settings.Settings().Currency
	if cur == "" {
		cur = c.app.Config.Currency
	}

	subs := c.app.Subscriptions.Upcoming(c.days)
	if len(subs) == 0 {
		fmt.Printf("no renewals within %d days\n", c.days)
		return subcommands.ExitSuccess
	}
	for _, sub := range subs {
		fmt.Printf("%s  %s  %s on %s\n",
			sub.ID, sub.Name, formatAmount(sub.Amount, cur),
			sub.NextBillingDate.Format("2006-01-02"))
	}
	return subcommands.ExitSuccess
}
