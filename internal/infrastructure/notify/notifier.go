// Package notify emits owner notifications. Delivery transport (mail, push)
// belongs to the main application; this adapter records the outcome on the
// structured log stream it consumes from.
package notify

import (
	"context"
	"log/slog"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, notification domain.Notification) error {
	slog.Info("owner_notification",
		"owner_id", notification.OwnerID,
		"content_name", notification.ContentName,
		"content_type", notification.ContentType,
		"decision", string(notification.Decision),
		"reason", notification.Reason,
	)
	return nil
}
