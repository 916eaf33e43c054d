package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Run the multiplayer WebSocket server"`
	Play     PlayCmd          `cmd:"" help:"Play a local game against bots"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-vs-bot batch simulations"`
	Odds     OddsCmd          `cmd:"" help:"Show scoring and bust probability tables"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("farkledice"),
		kong.Description("Farkle dice server, local play, and simulation tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
