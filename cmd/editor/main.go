package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/cli"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp()
	err := app.Command().ExecuteContext(ctx)
	if cerr := app.Close(); cerr != nil {
		log.Printf("close: %v", cerr)
	}

	if err != nil {
		log.Printf("%v", err)
		stop()
		os.Exit(1)
	}

}
