package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fletero/fletero/internal/pkg/constants"
	"github.com/fletero/fletero/internal/pkg/database"
	"github.com/fletero/fletero/internal/pkg/logger"
)

// PresenceRepo mirrors live sessions to a redis set so admins can see
// who is connected. Writes are best effort.
type PresenceRepo struct {
	redisClient *database.RedisClient
}

func NewPresenceRepository(redisClient *database.RedisClient) *PresenceRepo {
	return &PresenceRepo{
		redisClient: redisClient,
	}
}

// MarkOnline records a connected principal
func (r *PresenceRepo) MarkOnline(ctx context.Context, userID uuid.UUID) error {
	return r.redisClient.SAdd(ctx, constants.KeyOnlineUsers, userID.String())
}

// MarkOffline removes a disconnected principal
func (r *PresenceRepo) MarkOffline(ctx context.Context, userID uuid.UUID) error {
	return r.redisClient.SRem(ctx, constants.KeyOnlineUsers, userID.String())
}

// OnlineUserIDs returns the principals currently connected
func (r *PresenceRepo) OnlineUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	members, err := r.redisClient.SMembers(ctx, constants.KeyOnlineUsers)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			logger.Warn("Skipping malformed presence entry", logger.String("member", member))
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
