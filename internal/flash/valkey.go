package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyStore implements Store with one Valkey list per session, so
// messages survive restarts and are shared between server replicas.
type ValkeyStore struct {
	client valkey.Client
	prefix string // Key prefix: "multiversion:flash:"
	ttl    time.Duration
}

// NewValkeyStore creates a new Valkey-backed store
func NewValkeyStore(addr string, ttl time.Duration) (*ValkeyStore, error) {
	// Create Valkey client with connection pool
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pingCmd := client.B().Ping().Build()
	if err := client.Do(ctx, pingCmd).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}

	s := NewValkeyStoreWithClient(client, ttl)
	slog.Info("Initialized Valkey flash store",
		"address", addr,
		"key_prefix", s.prefix)
	return s, nil
}

// NewValkeyStoreWithClient wraps an existing client
func NewValkeyStoreWithClient(client valkey.Client, ttl time.Duration) *ValkeyStore {
	return &ValkeyStore{
		client: client,
		prefix: "multiversion:flash:",
		ttl:    ttl,
	}
}

func (s *ValkeyStore) key(session string) string {
	return s.prefix + session
}

// Push appends a message to the session list and refreshes its expiry
func (s *ValkeyStore) Push(ctx context.Context, session string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	key := s.key(session)
	cmds := valkey.Commands{
		s.client.B().Rpush().Key(key).Element(string(data)).Build(),
	}
	if s.ttl > 0 {
		cmds = append(cmds, s.client.B().Expire().Key(key).Seconds(int64(s.ttl/time.Second)).Build())
	}

	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("failed to push message to Valkey: %w", err)
		}
	}
	return nil
}

// Drain reads and deletes the session list inside one MULTI/EXEC, so
// concurrent drains never see the same message twice
func (s *ValkeyStore) Drain(ctx context.Context, session string) ([]Message, error) {
	key := s.key(session)

	resps := s.client.DoMulti(ctx,
		s.client.B().Multi().Build(),
		s.client.B().Lrange().Key(key).Start(0).Stop(-1).Build(),
		s.client.B().Del().Key(key).Build(),
		s.client.B().Exec().Build(),
	)
	for _, resp := range resps {
		if err := resp.Error(); err != nil {
			return nil, fmt.Errorf("failed to drain messages from Valkey: %w", err)
		}
	}

	replies, err := resps[len(resps)-1].ToArray()
	if err != nil {
		return nil, fmt.Errorf("failed to drain messages from Valkey: %w", err)
	}
	if len(replies) == 0 {
		return nil, fmt.Errorf("failed to drain messages from Valkey: transaction discarded")
	}
	values, err := replies[0].AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to read messages from Valkey: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	messages := make([]Message, 0, len(values))
	for _, v := range values {
		var msg Message
		if err := json.Unmarshal([]byte(v), &msg); err != nil {
			slog.Warn("Skipping malformed flash message", "session", session, "error", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Close closes the Valkey client
func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}
