// Package notify delivers advisory messages to members.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Notifier sends message to the member identified by memberID.
type Notifier interface {
	Notify(ctx context.Context, memberID uuid.UUID, message string) error
}

// LogNotifier writes notifications to the structured log. It is used when no
// outbound channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, memberID uuid.UUID, message string) error {
	n.logger.InfoContext(ctx, "member notification", "action", "notify", "member_id", memberID.String(), "message", message)
	return nil
}
