package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lseverin/mapclash/backend/internal/auth"
	"github.com/lseverin/mapclash/backend/internal/config"
	"github.com/lseverin/mapclash/backend/internal/guesses"
	"github.com/lseverin/mapclash/backend/internal/middleware"
	"github.com/lseverin/mapclash/backend/internal/posts"
	"github.com/lseverin/mapclash/backend/internal/store"
	"github.com/lseverin/mapclash/backend/internal/teams"
	"github.com/lseverin/mapclash/backend/internal/zones"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := store.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.MongoDB)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	guessStore := store.NewGuessStore(db)
	teamStore := store.NewTeamStore(db)
	zoneStore := store.NewZoneStore(db)

	// ── Zone reference data ──────────────────────────────────
	refZones, err := zones.ReferenceZones()
	if err != nil {
		log.Fatalf("zones data: %v", err)
	}
	if err := zoneStore.Seed(ctx, refZones); err != nil {
		log.Fatalf("zones seed: %v", err)
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)

	// ── MinIO ────────────────────────────────────────────────
	pictures, err := store.NewPictureStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	cleaner := posts.NewCleaner(postStore, pictures, guessStore)
	authHandler := auth.NewHandler(userStore, teamStore, sessions, cleaner)
	postHandler := posts.NewHandler(postStore, pictures, guessStore, userStore, cfg.MaxPictureBytes)

	possession := teams.NewPublisher(guessStore, rdb)
	teamHandler := teams.NewHandler(teamStore, guessStore)

	guessService := guesses.NewService(guessStore, postStore, cfg.AllowSelfGuess)
	guessHandler := guesses.NewHandler(guessStore, guessService, possession)

	zoneHandler := zones.NewHandler(zoneStore)

	requireAuth := middleware.RequireAuth(sessions)
	requireAdmin := middleware.RequireAdmin(userStore)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/authentification", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.With(requireAuth).Post("/logout", authHandler.Logout)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", authHandler.Profile)
			r.Patch("/", authHandler.PatchProfile)
			r.Post("/password", authHandler.ChangePassword)
			r.Delete("/", authHandler.DeleteAccount)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", postHandler.List)
			r.Post("/", postHandler.Create)
			r.Get("/{id}", postHandler.Get)
			r.Get("/{id}/picture", postHandler.Picture)
			r.Patch("/{id}", postHandler.Patch)
			r.Delete("/{id}", postHandler.Delete)
		})

		r.Route("/guesses", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", guessHandler.List)
			r.Post("/", guessHandler.Submit)
			r.Get("/{id}", guessHandler.Get)
			r.With(requireAdmin).Delete("/{id}", guessHandler.Delete)
			r.Get("/user/{id}", guessHandler.ListByUser)
			r.Get("/user/{id}/globalScore", guessHandler.GlobalScore)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.List)
			r.Get("/leaderboard", teamHandler.Leaderboard)
			r.Get("/possession", teamHandler.Possession)
			r.Get("/{id}", teamHandler.Get)
			r.With(requireAuth, requireAdmin).Post("/", teamHandler.Create)
		})

		r.Route("/zones", func(r chi.Router) {
			r.Get("/", zoneHandler.List)
			r.Get("/map", zoneHandler.Map)
			r.Get("/{id}", zoneHandler.Get)
		})

		r.With(requireAuth).Get("/user-scores/user/{id}/posts", postHandler.UserPostsScore)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
