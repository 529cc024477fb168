package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"waterbills/cmd/waterbills-cli/commands"
	"waterbills/lib/telemetry"
)

// Returns a context that will live until Ctrl+C is pressed
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

func main() {
	telemetry.InitSlog(true)
	ctx := signalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "waterbills-cli")
	if err == nil {
		defer tel.Shutdown(context.Background())
	}

	commands.ExecuteContext(ctx)
}
