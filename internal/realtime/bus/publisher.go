package bus

import (
	"context"

	"github.com/casekeep/casekeep-backend/internal/platform/logger"
	"github.com/casekeep/casekeep-backend/internal/realtime"
)

type busPublisher struct {
	log *logger.Logger
	bus Bus
}

// NewPublisher routes events through the bus so every instance's
// forwarder rebroadcasts them to its local hub, the publisher included.
// Publishing straight to the hub as well would deliver twice.
func NewPublisher(log *logger.Logger, b Bus) realtime.Publisher {
	return &busPublisher{log: log.With("service", "BusPublisher"), bus: b}
}

func (p *busPublisher) Publish(ctx context.Context, msg realtime.SSEMessage) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(ctx, msg); err != nil {
		p.log.Warn("event publish failed", "channel", msg.Channel, "event", string(msg.Event), "error", err)
	}
}
