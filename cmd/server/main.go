package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Kiraws/ExploreTogoBack/internal/config"
	"github.com/Kiraws/ExploreTogoBack/internal/database"
	"github.com/Kiraws/ExploreTogoBack/internal/handler"
	"github.com/Kiraws/ExploreTogoBack/internal/middleware"
	"github.com/Kiraws/ExploreTogoBack/internal/queue"
	"github.com/Kiraws/ExploreTogoBack/internal/repository"
	"github.com/Kiraws/ExploreTogoBack/internal/router"
	"github.com/Kiraws/ExploreTogoBack/internal/storage"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db, "migrations"); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// Object store is optional in development; venue image endpoints
	// degrade to metadata-only when it is absent.
	var images *storage.ImageStore
	if cfg.S3Endpoint != "" {
		images, err = storage.New(context.Background(), storage.Options{
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			UseSSL:        cfg.S3UseSSL,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
	} else {
		log.Println("storage: S3_ENDPOINT not set, image uploads disabled")
	}

	// Redis powers the response cache and the rate limiter; both fail
	// open when it is unreachable.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	lieux := repository.NewLieuRepo(db)
	reservations := repository.NewReservationRepo(db)
	social := repository.NewSocialRepo(db)
	notifications := repository.NewNotificationRepo(db)
	menus := repository.NewMenuRepo(db)

	publishEvents := cfg.RabbitURL != ""
	if publishEvents {
		go func() {
			if err := queue.StartReservationConsumer(notifications); err != nil {
				log.Printf("reservation consumer stopped: %v", err)
			}
		}()
	} else {
		log.Println("queue: RABBITMQ_URL not set, reservation events disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users, sessions),
		Venues:        handler.NewVenueHandler(lieux, images),
		ImagesH:       handler.NewImageHandler(lieux, images),
		Reservations:  handler.NewReservationHandler(reservations, lieux, publishEvents),
		Social:        handler.NewSocialHandler(social, lieux),
		Notifications: handler.NewNotificationHandler(notifications, users),
		Menus:         handler.NewMenuHandler(menus, lieux),
	}
	router.Register(e, h, cfg.JWTSecret, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
