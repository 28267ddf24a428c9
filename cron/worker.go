package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"calleroo/config"
	taskRepo "calleroo/database/repository/task"
	"calleroo/models"
	"calleroo/services/call"
	"calleroo/services/tasks"
)

// InitCallDispatchWorker runs the async worker in background. It fires
// scheduled tasks at their run time and launches the corresponding call.
func InitCallDispatchWorker(callSvc call.Service, repo taskRepo.ScheduledTaskRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	concurrency := config.AppConfig.SchedulerConcurrent
	if concurrency <= 0 {
		concurrency = 10
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCallDispatch, handleDispatchTask(callSvc, repo))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[CallDispatchWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[CallDispatchWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[CallDispatchWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleDispatchTask(callSvc call.Service, repo taskRepo.ScheduledTaskRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.DispatchPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[CallDispatchHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		scheduled, err := repo.GetByID(ctx, p.TaskID)
		if err != nil {
			log.Printf("[CallDispatchHandler] ❌ Failed to load task %s: %v", p.TaskID, err)
			return err
		}
		if scheduled == nil {
			log.Printf("[CallDispatchHandler] ⚠️ Task %s no longer exists, skipping", p.TaskID)
			return nil
		}
		if scheduled.Status != models.TaskStatusScheduled {
			log.Printf("[CallDispatchHandler] ⚠️ Task %s is %s, skipping", p.TaskID, scheduled.Status)
			return nil
		}

		if err := repo.UpdateStatus(ctx, p.TaskID, models.TaskStatusRunning, ""); err != nil {
			log.Printf("[CallDispatchHandler] ❌ Failed to mark task %s running: %v", p.TaskID, err)
			return err
		}

		log.Printf("[CallDispatchHandler] ⏰ Dispatching task %s (%s) → %s", p.TaskID, scheduled.Mode, scheduled.Brief.CalleePhone)

		brief := scheduled.Brief
		if scheduled.Mode == models.TaskModeBriefStart {
			// Rebuild the brief from the agent spec so slot edits made after
			// scheduling are reflected in the spoken script.
			brief, err = call.BriefForAgent(scheduled.Brief.AgentType, scheduled.Brief.Slots)
			if err != nil {
				_ = repo.UpdateStatus(ctx, p.TaskID, models.TaskStatusFailed, err.Error())
				log.Printf("[CallDispatchHandler] ❌ Brief build failed for task %s: %v", p.TaskID, err)
				return err
			}
		}

		resp, err := callSvc.StartWithBrief(ctx, "", brief)
		if err != nil {
			_ = repo.UpdateStatus(ctx, p.TaskID, models.TaskStatusFailed, err.Error())
			log.Printf("[CallDispatchHandler] ❌ Call launch failed for task %s: %v", p.TaskID, err)
			return err
		}

		if err := repo.AttachCall(ctx, p.TaskID, resp.CallID); err != nil {
			log.Printf("[CallDispatchHandler] ❌ Failed to attach call %s to task %s: %v", resp.CallID, p.TaskID, err)
		}
		if err := repo.UpdateStatus(ctx, p.TaskID, models.TaskStatusCompleted, ""); err != nil {
			log.Printf("[CallDispatchHandler] ❌ Failed to complete task %s: %v", p.TaskID, err)
		}

		log.Printf("[CallDispatchHandler] ✅ Task %s launched call %s", p.TaskID, resp.CallID)
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[CallDispatchWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
