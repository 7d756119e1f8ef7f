package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

type SSEClient struct {
	ID        uuid.UUID
	UserID    *int64
	Channels  map[string]bool
	Outbound  chan SSEMessage
	done      chan struct{}
	closeOnce sync.Once
	Logger    *logger.Logger
}
