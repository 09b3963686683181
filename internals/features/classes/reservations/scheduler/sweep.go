package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"yogacenter_backend/internals/configs"
	"yogacenter_backend/internals/features/classes/reservations/service"
)

const DefaultSweepSchedule = "@every 15m"

// StartReservationSweep menandai completed semua reservasi active yang kelasnya sudah mulai.
// Caller wajib Stop() cron yang dikembalikan saat shutdown.
func StartReservationSweep(db *gorm.DB) (*cron.Cron, error) {
	schedule := configs.GetEnv("RESERVATION_SWEEP_CRON", DefaultSweepSchedule)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() { runSweep(db) }); err != nil {
		return nil, err
	}
	log.Printf("[SWEEP] started schedule=%q", schedule)
	c.Start()
	return c, nil
}

func runSweep(db *gorm.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := service.CompleteElapsed(ctx, db, time.Now().UTC())
	if err != nil {
		log.Printf("[SWEEP ERROR] %v", err)
		return
	}
	if n > 0 {
		log.Printf("[SWEEP] %d reservation(s) completed", n)
	}
}
