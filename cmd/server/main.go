package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/venus/internal/buildinfo"
	"github.com/dmitrijs2005/venus/internal/server"
	"github.com/dmitrijs2005/venus/internal/server/config"
)

func main() {
	buildinfo.Print(os.Stdout)

	ctx := context.Background()
	cfg, warnings, err := config.LoadConfig()
	if err != nil {
		log.Printf("config: %v", err)
		os.Exit(2)
	}

	app, err := server.NewApp(ctx, cfg, warnings)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
