package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/proposalkeeper/internal/cli"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}

}
