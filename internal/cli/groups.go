package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// GroupsCmd lists groups with the local user's balance in each.
type GroupsCmd struct {
	app *App
}

// NewGroupsCmd returns the groups subcommand.
func NewGroupsCmd(app *App) *GroupsCmd { return &GroupsCmd{app: app} }

func (*GroupsCmd) Name() string     { return "groups" }
func (*GroupsCmd) Synopsis() string { return "list groups and your balance in each" }
func (*GroupsCmd) Usage() string {
	return `groups

  Lists every group with its member count, expense count and your net
  balance (positive: the group owes you).
`
}

func (c *GroupsCmd) SetFlags(*flag.FlagSet) {}

func (c *GroupsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := c.app.Config
	cur := c.app.Settings.Settings().Currency
	if cur == "" {
		cur = cfg.Currency
	}

	groups := c.app.Ledger.Groups()
	if len(groups) == 0 {
		fmt.Println("no groups")
		return subcommands.ExitSuccess
	}
	for _, g := range groups {
		balance := c.app.Ledger.GroupBalance(g.ID, cfg.CurrentUserID)
		fmt.Printf("%s  %s  (%d members, %d expenses)  balance %s\n",
			g.ID, g.Name, len(g.Members), len(g.Expenses), formatAmount(balance, cur))
	}
	return subcommands.ExitSuccess
}
