// Command vdcli — клиент командной строки для API Vitória Diária.
package main

import (
	"VitoriaDiaria/internal/cli/commands"
	"VitoriaDiaria/internal/config"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// commandTimeout ограничивает одну команду вместе со всеми её запросами к серверу.
const commandTimeout = 30 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// -h до имени команды печатает список команд, а не только флаги
	flag.Usage = func() {
		fmt.Fprint(commands.Out, commands.FormatGlobalUsage())
		fmt.Fprintln(commands.Out, "\nFlags:")
		flag.CommandLine.SetOutput(commands.Out)
		flag.PrintDefaults()
	}
	cfg := config.NewConfig()

	if cfg.Version {
		fmt.Fprintf(commands.Out, "VitoriaDiaria CLI\nVersion: %s\nBuild date: %s\nServer: %s\n", version, buildDate, cfg.ServerURL)
		return commands.ExitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	return commands.Dispatch(ctx, cfg, flag.Args())
}
