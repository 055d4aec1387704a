package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shoporders/backend/internal/domain/catalog"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/infrastructure/config"
	"github.com/shoporders/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

// PriceListImporter performs an import on behalf of a shop user
type PriceListImporter interface {
	ImportPriceList(ctx context.Context, userID uuid.UUID, url string) (*catalog.ImportResult, error)
}

// Worker processes queued tasks
type Worker struct {
	server   *asynq.Server
	sender   mail.Sender
	importer PriceListImporter
	logger   *zap.Logger
}

// NewWorker creates a worker that pulls tasks from the configured Redis
func NewWorker(redisCfg config.RedisConfig, jobsCfg config.JobsConfig, sender mail.Sender, importer PriceListImporter, logger *zap.Logger) *Worker {
	log := logger.Named("jobs")
	server := asynq.NewServer(redisOpt(redisCfg), asynq.Config{
		Concurrency: jobsCfg.Concurrency,
		Queues:      queueWeights,
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			log.Error("task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})
	return &Worker{
		server:   server,
		sender:   sender,
		importer: importer,
		logger:   log,
	}
}

// Mux routes task types to their handlers
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailSend, w.handleEmail)
	mux.HandleFunc(TypePriceListImport, w.handlePriceListImport)
	return mux
}

// Start begins processing in background goroutines
func (w *Worker) Start() error {
	w.logger.Info("starting background job worker")
	if err := w.server.Start(w.Mux()); err != nil {
		return fmt.Errorf("start job worker: %w", err)
	}
	return nil
}

// Stop waits for in-flight tasks and shuts the worker down
func (w *Worker) Stop() {
	w.logger.Info("stopping background job worker")
	w.server.Shutdown()
}

func (w *Worker) handleEmail(ctx context.Context, t *asynq.Task) error {
	var p EmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A malformed payload never succeeds; skip retries.
		return fmt.Errorf("unmarshal email payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.sender.Send(ctx, p.Message); err != nil {
		if errors.Is(err, mail.ErrInvalidMessage) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	return nil
}

func (w *Worker) handlePriceListImport(ctx context.Context, t *asynq.Task) error {
	var p PriceListImportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal price list payload: %v: %w", err, asynq.SkipRetry)
	}

	result, err := w.importer.ImportPriceList(ctx, p.UserID, p.URL)
	if err != nil {
		// Domain rejections (bad feed, name mismatch) will not change on retry.
		if code := shared.CodeOf(err); code != "" {
			w.logger.Warn("price list rejected", zap.String("user_id", p.UserID.String()), zap.String("code", code))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	w.logger.Info("price list imported",
		zap.String("user_id", p.UserID.String()),
		zap.String("url", p.URL),
		zap.Int("products", result.Products),
		zap.Int("deleted", result.Deleted),
	)
	return nil
}
