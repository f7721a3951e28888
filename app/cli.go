// Package app is the main cmd app
package app

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/htol/libshelf/api"
	"github.com/htol/libshelf/cache"
	"github.com/htol/libshelf/config"
	"github.com/htol/libshelf/gateway"
	"github.com/htol/libshelf/logger"
	"github.com/htol/libshelf/service"
)

func CLI(args []string) int {
	var app appEnv
	if err := app.fromArgs(args); err != nil {
		fmt.Println(err)
		return 2
	}

	if err := app.run(); err != nil {
		logger.Error("Runtime error", "error", err)
		return 1
	}
	return 0
}

type appEnv struct {
	server  *http.Server
	config  *config.Config
	cmd     string
	service *service.Service
}

func (app *appEnv) fromArgs(args []string) error {
	fl := flag.NewFlagSet("libshelf", flag.ContinueOnError)

	// Load default config
	cfg := config.Load()

	// CLI flags override environment variables
	port := cfg.Server.Port
	apiBase := cfg.API.BaseURL

	fl.IntVar(&port, "p", cfg.Server.Port, "Port number")
	fl.StringVar(&apiBase, "a", cfg.API.BaseURL, "Base URL of the remote library API")

	if err := fl.Parse(args); err != nil {
		fl.Usage()
		return err
	}

	app.cmd = "serve"
	if fl.NArg() > 0 {
		app.cmd = fl.Arg(0)
	}
	app.config = cfg
	app.config.Server.Port = port
	app.config.API.BaseURL = apiBase

	return nil
}

func (app *appEnv) run() error {
	// Initialize logger
	logger.Init(app.config.LogLevel)

	switch app.cmd {
	case "serve":
		gw := gateway.New(app.config.API)
		inventory := cache.NewInventory(gw)
		app.service = service.New(gw, inventory)
		app.serve()
	default:
		return fmt.Errorf("unknown command %s", app.cmd)
	}
	return nil
}

func (app *appEnv) serve() {
	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:      api.NewHandler(app.service),
		ReadTimeout:  time.Duration(app.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(app.config.Server.IdleTimeout) * time.Second,
	}
	app.server = srv

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server listening",
			"port", app.config.Server.Port,
			"url", fmt.Sprintf("http://localhost:%d", app.config.Server.Port),
			"api", app.config.API.BaseURL,
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server errors
	select {
	case err := <-serverErrors:
		// Server failed to start
		if err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
		return
	case sig := <-shutdownSignal:
		// Received shutdown signal
		logger.Info("Received shutdown signal", "signal", sig.String())

		logger.Info("Shutting down server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}

		logger.Info("Server stopped")
	}
}
