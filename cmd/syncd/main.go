package main

import (
	"context"
	"log"

	"github.com/avielas/tripsync/internal/app"
	"github.com/avielas/tripsync/internal/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("app init error: %v", err)
		return
	}

	a.Run(ctx)
}
