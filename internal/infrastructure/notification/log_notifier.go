package notification

import (
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// LogNotifier writes user notifications to the structured log. The web
// client renders its own toasts from API responses; server-side the
// notification stream is kept for operators.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(userID, title, message string) {
	n.log.Info("User notification",
		"user_id", userID,
		"level", "success",
		"title", title,
		"message", message,
	)
}

func (n *LogNotifier) Error(userID, title, message string) {
	n.log.Warn("User notification",
		"user_id", userID,
		"level", "error",
		"title", title,
		"message", message,
	)
}
