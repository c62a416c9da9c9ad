package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"counselpost/internal/config"
	"counselpost/internal/domain/repositories"
	"counselpost/internal/handler"
	"counselpost/internal/httputil"
	"counselpost/internal/middleware"
	"counselpost/internal/repository/postgres"
	"counselpost/internal/service/catalog"
	"counselpost/internal/service/content"
	"counselpost/internal/service/llm"
	"counselpost/internal/service/session"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"generator_model", cfg.GeneratorModel,
	)

	// Session cookie signing secret. An ephemeral secret means sessions do not
	// survive a restart, which is acceptable outside production.
	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("SESSION_SECRET not set, using ephemeral secret; sessions reset on restart")
	}

	// Database is optional: without one the catalog serves the filesystem and
	// posts live only in session memory.
	var articleRepo repositories.ArticleRepository
	var postRepo repositories.PostRepository
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		logger.Info("database connected",
			"max_conns", 25,
			"min_conns", 5,
		)

		repoConfig := &postgres.RepositoryConfig{
			DB:     pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		articleRepo = postgres.NewArticleRepository(repoConfig)
		postRepo = postgres.NewPostRepository(repoConfig)
	} else {
		logger.Warn("DATABASE_URL not set, running without persistence")
	}

	// Load tone presets
	tones, err := config.LoadTones(cfg.TonesPath)
	if err != nil {
		log.Fatalf("Failed to load tone presets: %v", err)
	}

	// Setup generation providers
	registry, err := llm.Setup(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup generation providers: %v", err)
	}
	generator, err := registry.ForModel(cfg.GeneratorModel)
	if err != nil {
		log.Fatalf("Failed to resolve generator model: %v", err)
	}

	// Semantic validation is advisory and optional.
	var judge content.Judge
	if cfg.JudgeModel != "" {
		judgeGen, err := registry.ForModel(cfg.JudgeModel)
		if err != nil {
			log.Fatalf("Failed to resolve judge model: %v", err)
		}
		judge = content.NewSemanticValidator(judgeGen, cfg.JudgeModel, logger)
		logger.Info("semantic validation enabled", "judge_model", cfg.JudgeModel)
	}

	// Session state store, bounded by capacity and TTL.
	sessions := session.New(cfg.SessionLimit, cfg.SessionTTL)

	// Create services
	catalogService := catalog.NewService(articleRepo, cfg.ArticlesDir, logger)
	summaries := content.NewSummaryGenerator(generator, cfg.GeneratorModel, logger)
	assembler := content.NewAssembler(cfg.TemplatePath, logger)
	rewrites := content.NewRewriteService(generator, cfg.GeneratorModel, summaries, assembler, judge, logger)
	editor := content.NewEditor(generator, cfg.GeneratorModel, sessions, logger)

	// Create handlers
	articleHandler := handler.NewArticleHandler(catalogService, tones, logger)
	postHandler := handler.NewPostHandler(
		catalogService,
		rewrites,
		editor,
		sessions,
		postRepo,
		tones,
		cfg.GenerationTimeout,
		logger,
	)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Article catalog routes
	mux.HandleFunc("GET /api/articles", articleHandler.List)
	mux.HandleFunc("GET /api/articles/{filename}", articleHandler.Get)

	// Post routes; the literal "current" segment takes precedence over the
	// filename wildcard.
	mux.HandleFunc("POST /api/posts", postHandler.Create)
	mux.HandleFunc("GET /api/posts/current", postHandler.GetCurrent)
	mux.HandleFunc("GET /api/posts/{filename}", postHandler.GetByFilename)
	mux.HandleFunc("POST /api/posts/current/edits", postHandler.Edit)
	mux.HandleFunc("PUT /api/posts/current/content", postHandler.UpdateContent)
	mux.HandleFunc("GET /api/posts/current/export", postHandler.Export)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Session → Recovery → Routes. Recovery runs inside the
	// session middleware so panic logs carry the session id.
	sessionManager := middleware.NewSessionManager(secret, cfg.SessionTTL, cfg.Environment == "prod", logger)
	root = middleware.Recovery(logger)(root)
	root = sessionManager.Middleware(root)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Generation calls block the handler for the provider round trip, so the
	// write timeout must outlast the generation timeout.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
