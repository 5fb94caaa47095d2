package redis

import (
	"context"
	"time"

	"github.com/lexwatch/lexwatch/internal/application/deadline"
	"github.com/lexwatch/lexwatch/pkg/errors"
)

// sentMarkPrefix namespaces alert sent-marks under the client prefix.
const sentMarkPrefix = "alerts:sent:"

// SentAlertStore is the redis-backed deadline.AlertStateStore.  A mark keyed
// "{notificationID}-{tier}" survives process restarts, so overlapping
// scheduler ticks and worker replicas never re-deliver an alert.
type SentAlertStore struct {
	client *Client
}

// NewSentAlertStore builds the store.
func NewSentAlertStore(client *Client) *SentAlertStore {
	return &SentAlertStore{client: client}
}

var _ deadline.AlertStateStore = (*SentAlertStore)(nil)

// IsSent reports whether the alert key carries a sent-mark.
func (s *SentAlertStore) IsSent(ctx context.Context, key string) (bool, error) {
	n, err := s.client.rdb.Exists(ctx, s.client.key(sentMarkPrefix+key)).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to read sent mark")
	}
	return n > 0, nil
}

// MarkSent records delivery for at least ttl; a non-positive ttl falls back
// to the configured default.
func (s *SentAlertStore) MarkSent(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.client.defaultTTL
	}
	if err := s.client.rdb.Set(ctx, s.client.key(sentMarkPrefix+key), "1", ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write sent mark")
	}
	return nil
}
