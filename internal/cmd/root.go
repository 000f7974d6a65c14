package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string   `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool     `help:"JSON output to stdout; disables colors."`
	Plain   bool     `help:"TSV output to stdout; disables colors."`
	Verbose bool     `help:"Enable debug logging."`
	EnvFile []string `name:"env-file" help:"Extra .env files to load (default: ./.env)." type:"path"`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API."`
	Search  SearchCmd  `cmd:"" help:"Search internship postings once and print them."`
	Health  HealthCmd  `cmd:"" help:"Report store, notifier and browser status."`
	Seen    SeenCmd    `cmd:"" help:"Seen postings utilities."`
	Proxies ProxiesCmd `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
