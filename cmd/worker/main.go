package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/orris-inc/subtrack/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/subtrack/internal/interfaces/http"
)

// The worker runs the reminder sweep on its schedule without serving HTTP,
// for deployments that keep API replicas free of background jobs.
func main() {
	opts := &bootstrap.Options{Env: "development"}
	if len(os.Args) > 1 {
		opts.Env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		opts.Env = envVar
	}
	opts.ConfigPath = os.Getenv("SUBTRACK_CONFIG")

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *bootstrap.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Boot(ctx, opts, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	log := rt.Log
	log.Infow("starting reminder worker", "environment", opts.Env)

	container, err := httpRouter.NewContainer(rt.Config, rt.DB, rt.Redis, log)
	if err != nil {
		return err
	}
	defer container.Shutdown()

	if err := container.StartScheduler(); err != nil {
		return err
	}
	log.Infow("reminder worker started", "interval", rt.Config.Reminder.SweepInterval())

	<-ctx.Done()
	log.Infow("received signal, shutting down")
	return nil
}
