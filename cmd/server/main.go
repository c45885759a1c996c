package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/doctor-booking/internal/config"
	"github.com/iliyamo/doctor-booking/internal/database"
	"github.com/iliyamo/doctor-booking/internal/handler"
	"github.com/iliyamo/doctor-booking/internal/kvstore"
	"github.com/iliyamo/doctor-booking/internal/middleware"
	"github.com/iliyamo/doctor-booking/internal/queue"
	"github.com/iliyamo/doctor-booking/internal/repository"
	"github.com/iliyamo/doctor-booking/internal/router"
	"github.com/iliyamo/doctor-booking/internal/service"
)

func main() {
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb = config.NewRedisClient(cfg.Redis)
		if rdb == nil {
			if cfg.StoreBackend == config.BackendRedis {
				log.Fatalf("redis: cannot reach %s", cfg.Redis.Addr)
			}
			log.Printf("redis: cannot reach %s; rate limiting falls back to in-process buckets", cfg.Redis.Addr)
		} else {
			defer rdb.Close()
		}
	}

	kv, closeStore, err := openStore(ctx, cfg, rdb)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()
	if cfg.StoreSecret != "" {
		if kv, err = kvstore.NewSealed(kv, cfg.StoreSecret); err != nil {
			log.Fatalf("store: %v", err)
		}
	}

	catalog, err := repository.DefaultCatalog()
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	doctors := repository.NewDoctorRepo(kv, catalog)
	appointments := repository.NewAppointmentRepo(kv)

	auth := service.NewAuthService(repository.NewSessionRepo(kv), repository.NewUserRepo(kv))
	auth.HashSecrets = cfg.HashSecrets
	auth.HashCost = cfg.BcryptCost
	if sess, err := auth.Bootstrap(ctx); err != nil {
		log.Fatalf("auth: %v", err)
	} else if sess != nil {
		log.Printf("auth: restored session for %s", sess.Email)
	}

	first, err := repository.NewLaunchRepo(kv).MarkLaunched(ctx)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	if first {
		log.Printf("first launch on %s store", cfg.StoreBackend)
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.RabbitEnabled {
		events = service.NewAMQPPublisher(cfg.RabbitURL)
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.RabbitURL, cfg.BookingLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("booking-consumer: stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(auth, cfg.JWTSecret, cfg.AccessTTLMin), cfg.JWTSecret, auth,
		middleware.NewTokenBucket(cfg.RateLimit, rdb))
	router.RegisterPublic(e, handler.NewDoctorHandler(service.NewCatalogService(doctors)))
	router.RegisterPatient(e, handler.NewBookingHandler(
		service.NewBookingService(doctors, appointments),
		service.NewInvoiceService(appointments),
		events,
	), cfg.JWTSecret, auth)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreBackend)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openStore opens the configured key-value backend and returns a func that
// releases it.
func openStore(ctx context.Context, cfg config.Config, rdb *redis.Client) (kvstore.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return kvstore.NewRedis(rdb, cfg.StorePrefix), func() {}, nil
	case config.BackendMySQL:
		db, err := database.OpenMySQL(database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
		if err != nil {
			return nil, nil, err
		}
		s, err := kvstore.NewMySQL(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return s, func() { _ = db.Close() }, nil
	case config.BackendPostgres:
		pool, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		s, err := kvstore.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	default:
		log.Printf("store: using in-memory backend; data is lost on exit")
		return kvstore.NewMemory(), func() {}, nil
	}
}
