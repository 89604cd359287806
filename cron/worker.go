package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"fitbook/config"
	timeslotRepo "fitbook/database/repository/timeslot"
	"fitbook/services/booking"
)

const (
	TypeExpireRequests = "requests:expire"
	TypeReclaimSlots   = "slots:reclaim"
)

// InitSweepWorker runs the background sweeps: expiring stale booking requests
// and reclaiming slot leases whose holders never committed. Both tasks are
// idempotent, so overlapping or repeated runs are harmless.
func InitSweepWorker(workflow *booking.Workflow, slots timeslotRepo.Repository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExpireRequests, handleExpireRequests(workflow))
	mux.HandleFunc(TypeReclaimSlots, handleReclaimSlots(slots))

	go monitorRedisConnection()
	go runScheduler(redisOpts)

	// Start async worker with retry logic
	go func() {
		log.Println("[SweepWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// runScheduler enqueues the sweep tasks at the configured interval.
func runScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, nil)

	interval := fmt.Sprintf("@every %dm", config.AppConfig.SweepIntervalMinutes)
	if _, err := scheduler.Register(interval, asynq.NewTask(TypeExpireRequests, nil)); err != nil {
		log.Fatalf("[SweepWorker] Failed to register request expiry sweep: %v", err)
	}
	if _, err := scheduler.Register(interval, asynq.NewTask(TypeReclaimSlots, nil)); err != nil {
		log.Fatalf("[SweepWorker] Failed to register slot reclaim sweep: %v", err)
	}

	if err := scheduler.Run(); err != nil {
		log.Fatalf("[SweepWorker] Scheduler stopped: %v", err)
	}
}

func handleExpireRequests(workflow *booking.Workflow) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		count, err := workflow.ExpireRequests(ctx)
		if err != nil {
			log.Printf("[SweepWorker] Request expiry sweep failed: %v", err)
			return err
		}
		if count > 0 {
			log.Printf("[SweepWorker] Expired %d stale request(s)", count)
		}
		return nil
	}
}

func handleReclaimSlots(slots timeslotRepo.Repository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		count, err := slots.ReclaimStaleLocks(ctx, time.Now())
		if err != nil {
			log.Printf("[SweepWorker] Slot reclaim sweep failed: %v", err)
			return err
		}
		if count > 0 {
			log.Printf("[SweepWorker] Reclaimed %d stale slot lease(s)", count)
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SweepWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
