package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// SettleCmd marks one member's share of a group expense as paid.
type SettleCmd struct {
	app     *App
	group   string
	expense string
	member  string
}

// NewSettleCmd returns the settle subcommand.
func NewSettleCmd(app *App) *SettleCmd { return &SettleCmd{app: app} }

func (*SettleCmd) Name() string     { return "settle" }
func (*SettleCmd) Synopsis() string { return "mark a member's share of a group expense as paid" }
func (*SettleCmd) Usage() string {
	return `settle -group <id> -expense <id> -member <id>

  Settles one split. The expense itself flips to settled once every other
  share is already paid.
`
}

func (c *SettleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group id (required)")
	f.StringVar(&c.expense, "expense", "", "Expense id (required)")
	f.StringVar(&c.member, "member", "", "Member id of the share to settle (required)")
}

func (c *SettleCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.group == "" || c.expense == "" || c.member == "" {
		fmt.Fprintln(os.Stderr, "Error: -group, -expense and -member are required.")
		return subcommands.ExitUsageError
	}

	c.app.Ledger.SettleExpenseSplit(c.group, c.expense, c.member)

	// Mutations are silent no-ops on unknown ids; confirm by re-reading.
	g, ok := c.app.Ledger.GroupByID(c.group)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: group %q not found.\n", c.group)
		return subcommands.ExitFailure
	}
	for _, e := range g.Expenses {
		if e.ID != c.expense {
			continue
		}
		for _, split := range e.SplitBetween {
			if split.MemberID == c.member && split.Settled {
				fmt.Printf("settled share of member %s; expense settled: %v\n", c.member, e.Settled)
				return subcommands.ExitSuccess
			}
		}
		fmt.Fprintf(os.Stderr, "Error: no share for member %q on expense %q.\n", c.member, c.expense)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Error: expense %q not found in group %q.\n", c.expense, c.group)
	return subcommands.ExitFailure
}
