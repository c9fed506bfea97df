// Package tasks defines background jobs and their handlers
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// TypePasswordReset is the task type delivering a password reset email
	TypePasswordReset = "email:password_reset"
	// QueueEmail is the queue email tasks are processed from
	QueueEmail = "email"
	maxRetry   = 5
)

// PasswordResetPayload is the payload of a TypePasswordReset task
type PasswordResetPayload struct {
	Email string `json:"email"`
	Link  string `json:"link"`
}

// NewPasswordResetTask builds a password reset email task
func NewPasswordResetTask(email, link string) (*asynq.Task, error) {
	email = strings.TrimSpace(email)
	if email == "" || link == "" {
		return nil, fmt.Errorf("email and link are required")
	}

	payload, err := json.Marshal(PasswordResetPayload{Email: email, Link: link})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypePasswordReset, payload, asynq.Queue(QueueEmail), asynq.MaxRetry(maxRetry)), nil
}

// TaskClient is the interface that wraps task submission of asynq.Client
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer submits background tasks
type Enqueuer struct {
	client TaskClient
}

// NewEnqueuer creates a new enqueuer
func NewEnqueuer(client TaskClient) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueuePasswordReset queues delivery of a password reset link
func (e *Enqueuer) EnqueuePasswordReset(ctx context.Context, email, link string) error {
	task, err := NewPasswordResetTask(email, link)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue password reset: %w", err)
	}
	return nil
}
