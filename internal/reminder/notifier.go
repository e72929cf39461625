package reminder

import (
	"context"

	"github.com/greenthumb-labs/tend/internal/logger"
)

// LogNotifier writes reminders to the application log. The delivery
// channel of last resort; email or push delivery would implement the
// same Notifier interface.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a notifier backed by the default logger
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{
		log: logger.Default().WithComponent(logger.ComponentReminder),
	}
}

// Notify logs the reminder message
func (n *LogNotifier) Notify(ctx context.Context, message string) error {
	n.log.Info("Garden reminder", "message", message)
	return nil
}
