package main

import (
	"context"
	"log"

	"rest-user-service/cmd/api/app"
	"rest-user-service/cmd/api/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func run() error {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
