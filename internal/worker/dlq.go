package worker

// Label jobs that exhaust their render retries are parked on a Redis
// dead-letter list, payload and failure reason together, so a broken sheet
// can be diagnosed and re-enqueued by hand.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQLabels = "dlq:labels"

type dlqEntry struct {
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt time.Time       `json:"failed_at"`
	Attempts int             `json:"attempts"`
}

func sendToDLQ(ctx context.Context, rdb *redis.Client, payload json.RawMessage, reason string, attempts int) {
	entry := dlqEntry{
		Payload:  payload,
		Reason:   reason,
		FailedAt: time.Now().UTC(),
		Attempts: attempts,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Msg("dlq: marshal entry")
		return
	}
	if err := rdb.LPush(ctx, DLQLabels, data).Err(); err != nil {
		log.Error().Err(err).Msg("dlq: push failed")
		return
	}
	log.Warn().Str("reason", reason).Int("attempts", attempts).Msg("label job moved to dead letter list")
}

// DLQLength reports how many label jobs are parked, for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, DLQLabels).Result()
}
