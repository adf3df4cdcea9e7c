package server

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"claimwire/internal/domain"
)

// RedisMailbox queues envelopes in per-address Redis lists.
type RedisMailbox struct {
	rdb *redis.Client
}

// NewRedisMailbox returns a mailbox backed by rdb.
func NewRedisMailbox(rdb *redis.Client) *RedisMailbox {
	return &RedisMailbox{rdb: rdb}
}

func mailboxKey(address domain.Address) string {
	return "mailbox:" + address.String()
}

func (m *RedisMailbox) Append(ctx context.Context, env domain.EncryptedMessage) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return m.rdb.RPush(ctx, mailboxKey(env.Receiver), b).Err()
}

func (m *RedisMailbox) List(ctx context.Context, address domain.Address, limit int) ([]domain.EncryptedMessage, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	vals, err := m.rdb.LRange(ctx, mailboxKey(address), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	envs := make([]domain.EncryptedMessage, 0, len(vals))
	for _, v := range vals {
		var env domain.EncryptedMessage
		if err := json.Unmarshal([]byte(v), &env); err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return envs, nil
}

func (m *RedisMailbox) Drop(ctx context.Context, address domain.Address, count int) error {
	if count <= 0 {
		return nil
	}
	// LTRIM keeps [count, -1]; trimming past the end empties the list.
	return m.rdb.LTrim(ctx, mailboxKey(address), int64(count), -1).Err()
}

// Compile-time assertion that RedisMailbox implements MailboxStore.
var _ MailboxStore = (*RedisMailbox)(nil)
