// Package jobs runs background work on asynq: e-mail delivery and price-list imports.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shoporders/backend/internal/infrastructure/mail"
)

// Task types routed by the worker mux
const (
	TypeEmailSend       = "email:send"
	TypePriceListImport = "pricelist:import"
)

// Queue names and their weights on the worker
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

var queueWeights = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

// EmailPayload is the payload of an email:send task
type EmailPayload struct {
	Message mail.Message `json:"message"`
}

// PriceListImportPayload is the payload of a pricelist:import task
type PriceListImportPayload struct {
	UserID uuid.UUID `json:"user_id"`
	URL    string    `json:"url"`
}

// NewEmailTask builds an email:send task
func NewEmailTask(msg mail.Message, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailPayload{Message: msg})
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
	}
	return asynq.NewTask(TypeEmailSend, payload, opts...), nil
}

// NewPriceListImportTask builds a pricelist:import task
func NewPriceListImportTask(userID uuid.UUID, url string, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(PriceListImportPayload{UserID: userID, URL: url})
	if err != nil {
		return nil, fmt.Errorf("marshal price list payload: %w", err)
	}
	return asynq.NewTask(TypePriceListImport, payload, opts...), nil
}
