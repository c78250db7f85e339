// Package main is the entry point for the bluespace CLI client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/KmNeetuSingh/BlueSpace/internal/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	os.Exit(cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}
