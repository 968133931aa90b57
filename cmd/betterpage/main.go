package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/betterpage/betterpage/config"
	"github.com/betterpage/betterpage/internal/app"
	"github.com/betterpage/betterpage/internal/restapi"
	"github.com/betterpage/betterpage/internal/webserver"
)

var (
	configFile = flag.String("c", "/etc/betterpage.yml", "config file path")
	initDb     = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*configFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	server := webserver.New(application)
	restapi.Register(server)

	go func() {
		if err := server.Start(); err != nil {
			zap.S().Errorf("web server stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		zap.S().Errorf("web server shutdown error: %v", err)
	}
}
