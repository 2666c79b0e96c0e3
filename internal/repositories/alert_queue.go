package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"estateBack/internal/models"
)

// AlertQueueKey is the Redis list the mailer consumes from (RPOP side).
const AlertQueueKey = "saved_search:alerts"

type AlertQueue struct {
	Client redis.Cmdable
}

// Push enqueues alerts in one round trip.
func (q *AlertQueue) Push(ctx context.Context, alerts ...models.SavedSearchAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(alerts))
	for _, a := range alerts {
		b, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode alert for search %s: %w", a.SavedSearchID, err)
		}
		values = append(values, b)
	}
	return q.Client.LPush(ctx, AlertQueueKey, values...).Err()
}
