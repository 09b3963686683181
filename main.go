package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"yogacenter_backend/internals/configs"
	database "yogacenter_backend/internals/databases"
	reservationScheduler "yogacenter_backend/internals/features/classes/reservations/scheduler"
	paymentService "yogacenter_backend/internals/features/finance/payments/service"
	authScheduler "yogacenter_backend/internals/features/users/auth/scheduler"
	middlewares "yogacenter_backend/internals/middlewares"
	routes "yogacenter_backend/internals/route"
	"yogacenter_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + schema + seed
	database.ConnectDB()
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("❌ auto-migrate failed: %v", err)
	}
	if err := seeds.RunAllSeeds(database.DB); err != nil {
		log.Fatalf("❌ seeding failed: %v", err)
	}
	database.TunePool()
	database.WarmUpQueries()

	// ⏱ scheduler setelah DB siap
	blacklistCron, err := authScheduler.StartBlacklistCleanupScheduler(database.DB)
	if err != nil {
		log.Fatalf("❌ blacklist scheduler: %v", err)
	}
	sweepCron, err := reservationScheduler.StartReservationSweep(database.DB)
	if err != nil {
		log.Fatalf("❌ reservation sweep: %v", err)
	}

	// ✅ MIDTRANS
	paymentService.InitMidtrans(configs.MidtransServerKey, configs.MidtransUseProd)

	routes.SetupRoutes(app, database.DB)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop cron, server, lalu pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	<-blacklistCron.Stop().Done()
	<-sweepCron.Stop().Done()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
