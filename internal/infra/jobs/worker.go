package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/alignhq/api/internal/app"
	"github.com/alignhq/api/pkg/logger"
)

// WorkerConfig holds the configuration for the job worker.
type WorkerConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
	AuditInterval time.Duration
}

// Worker processes background jobs and owns the periodic audit
// schedule.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	logger    *logger.Logger
}

// NewWorker creates a new background job worker.
func NewWorker(cfg WorkerConfig, audits *app.AuditService, log *logger.Logger) (*Worker, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				QueueDefault: 5,
				QueueAudit:   2,
			},
		},
	)

	mux := asynq.NewServeMux()
	auditHandler := NewAuditTaskHandler(audits, log)
	mux.HandleFunc(TypeIsolationAudit, auditHandler.HandleIsolationAudit)

	w := &Worker{
		server: server,
		mux:    mux,
		logger: log,
	}

	if cfg.AuditInterval > 0 {
		scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
		task, err := NewIsolationAuditTask(IsolationAuditPayload{Trigger: "schedule"})
		if err != nil {
			return nil, err
		}
		spec := fmt.Sprintf("@every %s", cfg.AuditInterval)
		if _, err := scheduler.Register(spec, task); err != nil {
			return nil, fmt.Errorf("failed to register audit schedule: %w", err)
		}
		w.scheduler = scheduler
		log.Info("isolation audit scheduled", "interval", cfg.AuditInterval.String())
	}

	return w, nil
}

// Start starts the worker and, if configured, the scheduler.
func (w *Worker) Start() error {
	w.logger.Info("starting job worker")
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler error: %w", err)
		}
	}
	return w.server.Start(w.mux)
}

// Stop stops the worker gracefully.
func (w *Worker) Stop() {
	w.logger.Info("stopping job worker")
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()
}

// Run runs the worker until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Start()
	}()

	select {
	case <-ctx.Done():
		w.Stop()
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("worker error: %w", err)
		}
		return nil
	}
}
