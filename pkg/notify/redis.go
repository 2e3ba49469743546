package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisChannel is the pub/sub channel toasts are relayed on.
const RedisChannel = "jeevanra:toasts"

const publishTimeout = 2 * time.Second

// envelope is the relay wire format.
type envelope struct {
	Instance string  `json:"instance"`
	Scope    string  `json:"scope"`
	Message  Message `json:"message"`
}

// RedisRelay connects the hubs of several instances so tabs of one session
// served by different instances still see each other's toasts.
type RedisRelay struct {
	client   *redis.Client
	hub      *Hub
	instance string
	channel  string
}

// NewRedisRelay creates a relay for hub and installs it as the hub mirror.
func NewRedisRelay(client *redis.Client, hub *Hub) *RedisRelay {
	r := &RedisRelay{
		client:   client,
		hub:      hub,
		instance: uuid.NewString(),
		channel:  RedisChannel,
	}
	hub.SetMirror(r.mirror)
	return r
}

// Instance returns the id stamped on envelopes sent by this relay.
func (r *RedisRelay) Instance() string { return r.instance }

func (r *RedisRelay) mirror(scope string, msg Message) {
	data, err := json.Marshal(envelope{Instance: r.instance, Scope: scope, Message: msg})
	if err != nil {
		slog.Error("encode toast envelope", "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		slog.Warn("relay toast", "scope", scope, "err", err)
	}
}

// Run subscribes and delivers toasts from other instances until ctx is
// done.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("notify: subscribe %s: %w", r.channel, err)
	}
	slog.Info("toast relay subscribed", "channel", r.channel, "instance", r.instance)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			r.handleEnvelope([]byte(m.Payload))
		}
	}
}

// handleEnvelope delivers a relayed toast to local tabs. Envelopes sent by
// this instance were already delivered locally and are skipped. It reports
// whether the toast was delivered.
func (r *RedisRelay) handleEnvelope(payload []byte) bool {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		slog.Warn("decode toast envelope", "err", err)
		return false
	}
	if env.Instance == r.instance || env.Scope == "" {
		return false
	}
	if err := env.Message.Validate(); err != nil {
		slog.Warn("relayed toast rejected", "err", err)
		return false
	}
	r.hub.Deliver(env.Scope, env.Message)
	return true
}

// Close closes the redis client.
func (r *RedisRelay) Close() error {
	return r.client.Close()
}
