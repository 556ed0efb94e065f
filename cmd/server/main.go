package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flume/internal/config"
	"flume/internal/handler"
	"flume/internal/hub"
	"flume/internal/inp"
	"flume/internal/repository/sqlite"
	"flume/internal/service"
	"flume/internal/solver"
	"flume/internal/watcher"
)

func main() {
	// Command line flags override the config file
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	configPath := flag.String("config", "", "Config file path")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting flume server...")

	// Load configuration
	var (
		cfg        *config.Config
		loadedFrom string
		err        error
	)
	if *configPath != "" {
		cfg, loadedFrom, err = config.LoadFromPath(*configPath)
	} else {
		cfg, loadedFrom, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if loadedFrom != "" {
		log.Printf("Config loaded: %s", loadedFrom)
	} else {
		log.Println("No config file found, using defaults")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	// Initialize event bus
	eventBus := service.NewEventBus()

	// Initialize SSE hub
	sseHub := hub.New()
	go sseHub.Run()

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for event := range eventChan {
			sseHub.Broadcast(event)
		}
	}()

	// Pick the solver engine
	engine := buildEngine(cfg)
	log.Printf("Solver engine: %s", engine.Name())

	// Initialize the run service around the repair pipeline
	pipeline := inp.NewPipeline(cfg.Repair.DefaultRoughness)
	runSvc := service.NewRunService(repo, engine, pipeline, eventBus, cfg.Solver.WorkDir)

	// Watch the input directory if configured
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Enabled {
		startWatcher(watchCtx, cfg, runSvc, eventBus)
	}

	// Initialize HTTP handlers
	runHandler := handler.NewRunHandler(runSvc, cfg.Watch.Dir, cfg.Repair.DefaultRoughness)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/repair", runHandler.Repair)

	mux.HandleFunc("POST /api/runs", runHandler.CreateRun)
	mux.HandleFunc("GET /api/runs", runHandler.ListRuns)
	mux.HandleFunc("GET /api/runs/{id}", runHandler.GetRun)
	mux.HandleFunc("DELETE /api/runs/{id}", runHandler.DeleteRun)

	mux.HandleFunc("GET /api/runs/{id}/links", runHandler.GetLinks)
	mux.HandleFunc("GET /api/runs/{id}/nodes", runHandler.GetNodes)
	mux.HandleFunc("GET /api/runs/{id}/export", runHandler.ExportRun)

	mux.HandleFunc("GET /api/inputs", runHandler.ListInputs)

	// SSE events endpoint
	mux.Handle("GET /events", sseHub)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	// Create server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	watchCancel()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// buildEngine selects the local or remote solver from config
func buildEngine(cfg *config.Config) solver.Engine {
	if remote := cfg.Solver.Remote; remote != nil {
		var key []byte
		if remote.KeyFile != "" {
			data, err := os.ReadFile(remote.KeyFile)
			if err != nil {
				log.Fatalf("Failed to read solver SSH key: %v", err)
			}
			key = data
		}
		return solver.NewRemoteEngine(solver.RemoteConfig{
			Host:       remote.Host,
			Port:       remote.Port,
			User:       remote.User,
			PrivateKey: key,
			Password:   remote.Password,
			Binary:     cfg.Solver.Binary,
			Timeout:    cfg.Solver.Timeout.Duration(),
		})
	}
	return solver.NewExecEngine(solver.ExecConfig{
		Binary:  cfg.Solver.Binary,
		Timeout: cfg.Solver.Timeout.Duration(),
	})
}

// startWatcher wires the input-directory watcher to the run service
func startWatcher(ctx context.Context, cfg *config.Config, runSvc *service.RunService, bus *service.EventBus) {
	if err := os.MkdirAll(cfg.Watch.Dir, 0755); err != nil {
		log.Printf("Warning: cannot create watch dir %s: %v", cfg.Watch.Dir, err)
		return
	}

	w := watcher.New(cfg.Watch.Dir, func(path string) {
		bus.Publish(service.Event{Type: service.EventInputFound, Payload: map[string]string{"path": path}})

		if !cfg.Watch.AutoRun {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Failed to read %s: %v", path, err)
			return
		}
		if _, err := runSvc.Execute(ctx, path, string(data)); err != nil {
			log.Printf("Auto-run failed for %s: %v", path, err)
		}
	})

	go func() {
		if err := w.Watch(ctx); err != nil && err != context.Canceled {
			log.Printf("Watcher stopped: %v", err)
		}
	}()
}
