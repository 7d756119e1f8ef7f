package realtime

import "context"

// Publisher is how handlers emit events without knowing whether delivery
// is process-local or fanned out over a bus. Delivery is best-effort;
// failures are logged by the implementation, never returned.
type Publisher interface {
	Publish(ctx context.Context, msg SSEMessage)
}

type localPublisher struct {
	hub *SSEHub
}

// NewLocalPublisher broadcasts straight into the in-process hub. Used
// when no bus is configured.
func NewLocalPublisher(hub *SSEHub) Publisher {
	return &localPublisher{hub: hub}
}

func (p *localPublisher) Publish(_ context.Context, msg SSEMessage) {
	if p.hub == nil {
		return
	}
	p.hub.Broadcast(msg)
}
