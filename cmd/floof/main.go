// Command floof lists and plays the sounds embedded in it.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/zjrosen/floof/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
