package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"yogacenter_backend/internals/configs"
	"yogacenter_backend/internals/features/users/auth/service"
)

const DefaultBlacklistCleanupSchedule = "@daily"

// StartBlacklistCleanupScheduler menghapus token_blacklist yang sudah lewat expired_at.
// Caller wajib Stop() cron saat shutdown.
func StartBlacklistCleanupScheduler(db *gorm.DB) (*cron.Cron, error) {
	schedule := configs.GetEnv("TOKEN_BLACKLIST_CLEANUP_CRON", DefaultBlacklistCleanupSchedule)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() { runCleanup(db) }); err != nil {
		return nil, err
	}
	log.Printf("[CLEANUP] token_blacklist schedule=%q", schedule)
	c.Start()

	// sekali saat start supaya tidak menunggu jadwal pertama
	go runCleanup(db)
	return c, nil
}

func runCleanup(db *gorm.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := service.CleanupExpiredBlacklist(ctx, db, time.Now().UTC())
	if err != nil {
		log.Printf("[CLEANUP ERROR] %v", err)
		return
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d token kadaluarsa dihapus", n)
	}
}
