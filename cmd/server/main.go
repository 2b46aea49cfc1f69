package main

import (
	"context"
	"log"

	"github.com/forumlab/webforum/internal/config"
	"github.com/forumlab/webforum/internal/server"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
