package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Event kinds.
const (
	KindExpiringSoon = "expiring_soon"
	KindAutoExpired  = "auto_expired"
)

// Item is the product reference carried by an alert.
type Item struct {
	ID          string `json:"id"`
	ProductName string `json:"productName"`
	ExpiryDate  string `json:"expiryDate"`
}

// Event is an inventory alert for one owner.
type Event struct {
	Kind     string    `json:"kind"`
	Owner    string    `json:"owner"`
	Items    []Item    `json:"items"`
	Occurred time.Time `json:"occurred"`
}

// Notifier delivers alerts. Implementations must be safe for concurrent use.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// New builds the notifier selected by cfg.
func New(cfg Config, logger *zap.Logger) (Notifier, error) {
	switch cfg.Driver {
	case DriverLog, "":
		return NewLogNotifier(logger), nil
	case DriverAMQP:
		return DialAMQP(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported notify driver: %s", cfg.Driver)
	}
}

// LogNotifier writes alerts to the application log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier writing to logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Publish logs the event at warn level.
func (n *LogNotifier) Publish(_ context.Context, event Event) error {
	names := make([]string, 0, len(event.Items))
	for _, item := range event.Items {
		names = append(names, item.ProductName)
	}
	n.logger.Warn("Inventory alert",
		zap.String("kind", event.Kind),
		zap.String("user_id", event.Owner),
		zap.Int("count", len(event.Items)),
		zap.Strings("products", names),
	)
	return nil
}

// Close is a no-op.
func (n *LogNotifier) Close() error {
	return nil
}
