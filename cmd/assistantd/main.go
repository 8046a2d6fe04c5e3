package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	APIKey   string `env:"ASSISTANT_PROVIDER_API_KEY" help:"Completion provider API key"`
	BaseURL  string `env:"ASSISTANT_PROVIDER_BASE_URL" help:"Custom provider base URL"`
	LogLevel string `env:"ASSISTANT_LOG_LEVEL" default:"info" help:"Log level"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the assistant HTTP API (default)"`
	Migrate MigrateCmd `cmd:"" help:"Database migrations"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("assistantd"),
		kong.Description("Agency operations assistant API"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
