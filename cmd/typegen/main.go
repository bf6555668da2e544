package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/goliatone/go-typegen/cmd/typegen/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := commands.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "typegen: %v\n", err)
		os.Exit(1)
	}
}
