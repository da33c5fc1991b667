package main

import (
	"log"
	"os"
	"strconv"

	"github.com/hibiken/asynq"

	"bookstore-catalog/internal/config"
)

// Config holds the worker process settings on top of the shared app config.
type Config struct {
	Redis       asynq.RedisClientOpt
	SweepCron   string
	Concurrency int
	HealthAddr  string
}

func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		Redis: asynq.RedisClientOpt{
			Addr:     app.Redis.Host,
			Password: app.Redis.Password,
			DB:       app.Redis.DB,
		},
		SweepCron:   app.Queue.OrphanSweepCron,
		Concurrency: 10,
		HealthAddr:  ":9999",
	}

	if v, err := strconv.Atoi(os.Getenv("WORKER_CONCURRENCY")); err == nil && v > 0 {
		cfg.Concurrency = v
	}
	if v := os.Getenv("WORKER_HEALTH_ADDR"); v != "" {
		cfg.HealthAddr = v
	}

	log.Printf("[Config] Redis: %s, sweep cron: %q, concurrency: %d",
		cfg.Redis.Addr, cfg.SweepCron, cfg.Concurrency)

	return cfg
}
