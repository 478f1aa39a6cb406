package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Enuma3lish/ultimus-sub000/cmd/simulator/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := cmd.RootCmd().ExecuteContext(ctx); err != nil {
		fmt.Println(err.Error())
		stop()
		os.Exit(1)
	}
}
