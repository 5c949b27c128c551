package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/Aryan-Srivastava/expense-tracker/internal/cli"
	"github.com/Aryan-Srivastava/expense-tracker/internal/config"
	"github.com/Aryan-Srivastava/expense-tracker/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(cli.NewSummaryCmd(app), "")
	commander.Register(cli.NewGroupsCmd(app), "")
	commander.Register(cli.NewSettleCmd(app), "")
	commander.Register(cli.NewUpcomingCmd(app), "")

	flag.Parse()
	status := int(commander.Execute(ctx))
	app.Close()
	os.Exit(status)
}
