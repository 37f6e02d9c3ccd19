// Package main is the ChatList CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"chatlist/internal/config"
	"chatlist/internal/database"
	"chatlist/internal/logging"
	"chatlist/internal/server"
	"chatlist/internal/services"
	"chatlist/internal/utils"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "serve":
		runServe()
	case "dispatch":
		runDispatch()
	case "models":
		runModels()
	case "version", "--version", "-v":
		fmt.Printf("chatlist version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`chatlist - compare answers from multiple AI models

Usage:
  chatlist serve    [-config path] [-debug]        start the HTTP API
  chatlist dispatch [-config path] -prompt text    send a prompt to all active models
                    [-tags a,b] [-save-failures]
  chatlist models   [-config path]                 list configured models
  chatlist version
`)
}

// bootstrap loads env, config and the database, and builds the services.
func bootstrap(configPath string, debug bool) (*config.Config, *services.Services, *zap.Logger, error) {
	utils.LoadEnv()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, nil, nil, err
		}
		cfg = loaded
	}
	debug = debug || cfg.Debug

	log, err := logging.NewLogger(debug)
	if err != nil {
		return nil, nil, nil, err
	}

	level := logger.Warn
	if debug || database.IsDevelopment() {
		level = logger.Info
	}
	db, err := database.Init(database.Config{
		Path:     cfg.Storage.DatabasePath,
		LogLevel: level,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	return cfg, services.NewServices(db, log), log, nil
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, svc, log, err := bootstrap(*configPath, *debug)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	srv := server.NewServer(svc, &cfg.Server, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Stop(shutdownCtx)
	}()

	if err := srv.Start(); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}

func runDispatch() {
	fs := flag.NewFlagSet("dispatch", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	prompt := fs.String("prompt", "", "prompt text to send")
	tags := fs.String("tags", "", "comma-separated tags for the saved prompt")
	saveFailures := fs.Bool("save-failures", false, "record failed attempts as results")
	_ = fs.Parse(os.Args[2:])

	if strings.TrimSpace(*prompt) == "" {
		fmt.Println("dispatch requires -prompt")
		os.Exit(1)
	}

	_, svc, log, err := bootstrap(*configPath, *debug)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var tagList []string
	if *tags != "" {
		tagList = strings.Split(*tags, ",")
	}

	report, err := svc.Dispatches.Dispatch(ctx, *prompt, services.DispatchOptions{
		Tags:            tagList,
		PersistFailures: *saveFailures,
	})
	if err != nil {
		fmt.Printf("Dispatch failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Prompt #%d dispatched to %d models: %d saved, %d failed\n",
		report.PromptID, report.Models, len(report.Saved), len(report.Failures))
	for _, failure := range report.Failures {
		fmt.Printf("  %s: %s\n", failure.ModelName, failure.Diagnostic)
	}
}

func runModels() {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	_ = fs.Parse(os.Args[2:])

	_, svc, log, err := bootstrap(*configPath, false)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	list, err := svc.Models.List(context.Background())
	if err != nil {
		fmt.Printf("Failed to list models: %v\n", err)
		os.Exit(1)
	}
	if len(list) == 0 {
		fmt.Println("No models configured.")
		return
	}
	for _, m := range list {
		state := "inactive"
		if m.IsActive {
			state = "active"
		}
		fmt.Printf("#%d %s (%s, %s) %s\n", m.ID, m.Name, m.ModelType, state, m.APIURL)
	}
}
