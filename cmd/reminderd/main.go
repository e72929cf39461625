package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greenthumb-labs/tend/internal/config"
	"github.com/greenthumb-labs/tend/internal/logger"
	"github.com/greenthumb-labs/tend/internal/reminder"
	"github.com/greenthumb-labs/tend/internal/schedule"
	"github.com/greenthumb-labs/tend/internal/store"
	"github.com/greenthumb-labs/tend/internal/weather"
)

// connectWithRetry attempts to connect to Redis with exponential backoff
func connectWithRetry(redisURL string, maxRetries int, log logger.Logger) (*store.RedisStore, error) {
	var gardenStore *store.RedisStore
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		gardenStore, err = store.NewRedisStore(redisURL)
		if err == nil {
			return gardenStore, nil
		}

		// Exponential backoff: 2^attempt seconds, capped at 30 seconds
		delay := time.Duration(1<<uint(attempt)) * time.Second
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}

		log.Warn("Failed to connect to Redis, retrying",
			"attempt", attempt+1,
			"max_attempts", maxRetries,
			"error", err,
			"retry_in", delay)

		time.Sleep(delay)
	}

	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", maxRetries, err)
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	logger.SetDefault(log)

	reminderLog := log.WithComponent(logger.ComponentReminder)

	reminderLog.Info("Reminder daemon starting",
		"redis_url", cfg.RedisURL,
		"poll_interval", cfg.SchedulerPollInterval)

	// Start pprof server on separate port for profiling
	pprofPort := os.Getenv("PPROF_PORT")
	if pprofPort == "" {
		pprofPort = "6062"
	}
	go func() {
		reminderLog.Info("Starting pprof server", "port", pprofPort)
		if err := http.ListenAndServe(":"+pprofPort, nil); err != nil {
			reminderLog.Error("pprof server failed", "error", err)
		}
	}()

	// Connect to Redis with retry logic
	gardenStore, err := connectWithRetry(cfg.RedisURL, 5, reminderLog)
	if err != nil {
		reminderLog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer gardenStore.Close()

	reminderLog.Info("Successfully connected to Redis")

	// Pick the weather provider: live API when a key is configured,
	// deterministic mock otherwise
	var provider weather.Provider
	if cfg.UseMockWeather() {
		reminderLog.Warn("No OpenWeatherMap API key configured, using mock weather data")
		provider = weather.NewMockProvider()
	} else {
		provider = weather.NewOpenWeatherClient(cfg.OpenWeatherAPIKey, cfg.GardenLatitude, cfg.GardenLongitude)
	}

	// Wire the reminder jobs onto the scheduler
	sched := schedule.New()
	sched.SetPollInterval(cfg.SchedulerPollInterval)

	careReminder := reminder.New(gardenStore, provider, reminder.NewLogNotifier(), sched)
	careReminder.SetHeatAlertTemp(cfg.HeatAlertTemp)
	careReminder.Setup()
	careReminder.Start()

	reminderLog.Info("Reminder daemon ready", "jobs", sched.Count())

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	reminderLog.Info("Received shutdown signal, initiating graceful shutdown", "signal", sig)

	careReminder.Stop()

	reminderLog.Info("Reminder daemon shut down successfully")
}
