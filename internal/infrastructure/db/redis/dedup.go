package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 28 * 24 * time.Hour

// ProspectDedup suppresses duplicate coupon requests backed by Redis.
// Key format: prospect:<normalized_email>
type ProspectDedup struct {
	client *redis.Client
}

// NewProspectDedup creates a ProspectDedup wrapping the given Redis client.
func NewProspectDedup(client *redis.Client) *ProspectDedup {
	return &ProspectDedup{client: client}
}

// IsDuplicate reports whether this email has already requested a coupon
// within the dedup window.
func (d *ProspectDedup) IsDuplicate(ctx context.Context, email string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("prospect dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that a coupon was sent to this email (expires after dedupTTL).
func (d *ProspectDedup) Mark(ctx context.Context, email string) error {
	return d.client.Set(ctx, d.key(email), "1", dedupTTL).Err()
}

func (d *ProspectDedup) key(email string) string {
	return "prospect:" + email
}
