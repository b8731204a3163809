package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/imports"
	"github.com/mrlokans/bookshelf/internal/demo"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
	"github.com/mrlokans/bookshelf/internal/theme"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener so no task outlives the process.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var demoMiddleware *demo.Middleware
	if cfg.Demo.Enabled {
		log.Printf("Demo mode enabled - catalog reloads will be blocked")
		// The browsing forms are POSTs but only touch the visitor's own session.
		demoMiddleware = demo.NewMiddleware(true, "/ui/", "/settings/theme")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	source, err := OpenCatalog(context.Background(), cfg, db)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	defer source.Close()
	holder := source.Holder

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := http_controllers.NewSessionManager(sqlDB, cfg.Session.Lifetime, cfg.Session.SecureCookies)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	var csrfSecret []byte
	if cfg.Session.CSRFSecret != "" {
		csrfSecret = []byte(cfg.Session.CSRFSecret)
	} else {
		log.Printf("WARNING: CSRF_SECRET is not set. Form protection is disabled.")
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:        holder,
		Reloader:       holder,
		Database:       db,
		Imports:        imports.NewRepository(db.DB),
		BooksPerPage:   cfg.UI.BooksPerPage,
		TemplatesPath:  cfg.UI.TemplatesPath,
		DefaultTheme:   theme.ParseOr(string(cfg.UI.DefaultTheme), theme.Day),
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Session.SecureCookies,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		DemoMiddleware: demoMiddleware,
		Version:        version,
	}

	var coverCache *covers.Cache
	if cfg.Covers.Enabled {
		coverCache, err = covers.NewCache(cfg.Covers.Dir)
		if err != nil {
			log.Printf("WARNING: Failed to initialize cover cache: %v", err)
		} else {
			log.Printf("Cover cache initialized at %s", cfg.Covers.Dir)
			routerCfg.CoverCache = coverCache
		}
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var warmScheduler *scheduler.CoverWarmScheduler
	if cfg.Tasks.Enabled && coverCache != nil {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewWarmCoverQueue(coverCache),
			tasks.NewWarmAllCoversQueue(taskClient, func() tasks.BookLister { return holder }, coverCache),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		warmScheduler = scheduler.NewCoverWarmScheduler(cfg.Covers.WarmSchedule, taskClient, coverCache, func() []string {
			books := holder.Books()
			ids := make([]string, len(books))
			for i, b := range books {
				ids[i] = b.ID
			}
			return ids
		})
		if err := warmScheduler.Start(taskCtx); err != nil {
			log.Printf("WARNING: Failed to start cover warm scheduler: %v", err)
		}
		// Warm what the current catalog needs right away instead of waiting
		// for the first tick.
		if err := taskClient.RequestWarmAll(taskCtx); err != nil {
			log.Printf("WARNING: Failed to queue initial cover warm-up: %v", err)
		}
	} else if cfg.Covers.Enabled {
		log.Printf("Task queue disabled, covers are fetched on first request only")
	}

	router, err := http_controllers.NewRouter(routerCfg)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	onShutdown := func(ctx context.Context) {
		if warmScheduler != nil {
			warmScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
