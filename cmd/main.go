// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/auth"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/cache"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/config"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/database"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/handler"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/logging"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository/memory"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/service"
)

type stores struct {
	rooms    service.RoomStore
	bookings service.BookingStore
	users    service.UserStore
	roles    service.RoleStore
	close    func()
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	log, logCloser := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer logCloser.Close()

	// ── 1. Storage ───────────────────────────────────────────────────────
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer st.close()

	var photos *cache.PhotoCache
	if cfg.RedisAddr != "" {
		photos = cache.New(cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.PhotoCacheTTL,
		}, log)
		defer photos.Close()
		if err := photos.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unreachable, photos will be read from storage")
		} else {
			log.WithField("addr", cfg.RedisAddr).Info("connected to redis")
		}
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiration)
	policy, err := auth.NewPolicy()
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	roomSvc := service.NewRoomService(st.rooms, st.bookings, photos, log)
	bookingSvc := service.NewBookingService(st.bookings, st.rooms, log)
	userSvc := service.NewUserService(st.users, st.roles, tokens, log)
	roleSvc := service.NewRoleService(st.roles, st.users, log)

	if err := roleSvc.EnsureDefaults(ctx); err != nil {
		log.Fatalf("seed roles: %v", err)
	}
	if err := userSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// ── 3. Build the router ───────────────────────────────────────────────
	router := handler.NewRouter(handler.Deps{
		Rooms:       roomSvc,
		Bookings:    bookingSvc,
		Users:       userSvc,
		Roles:       roleSvc,
		Tokens:      tokens,
		Policy:      policy,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "storage": cfg.Storage}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
		return
	}
	log.Info("server stopped")
}

func openStores(ctx context.Context, cfg config.Config, log *logrus.Logger) (*stores, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		db := memory.New()
		return &stores{
			rooms:    db.Rooms(),
			bookings: db.Bookings(),
			users:    db.Users(),
			roles:    db.Roles(),
			close:    func() {},
		}, nil

	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("connected to PostgreSQL")
		return &stores{
			rooms:    repository.NewRoomRepository(pool),
			bookings: repository.NewBookingRepository(pool),
			users:    repository.NewUserRepository(pool),
			roles:    repository.NewRoleRepository(pool),
			close:    pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
}
