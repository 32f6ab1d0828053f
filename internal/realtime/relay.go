package realtime

import (
	"context"

	"go.uber.org/zap"
)

// PubSub is the subset of the Redis client the relay needs.
type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, fn func(payload []byte)) error
}

// Relay publishes events through a Redis channel so that every server
// instance subscribed to it broadcasts them to its own clients.
type Relay struct {
	ps      PubSub
	channel string
	hub     *Hub
	logger  *zap.Logger
}

// NewRelay creates a Relay feeding hub.
func NewRelay(ps PubSub, channel string, hub *Hub, logger *zap.Logger) *Relay {
	return &Relay{ps: ps, channel: channel, hub: hub, logger: logger}
}

// Publish sends the event to the channel. When Redis is unreachable the
// event is still delivered to local clients.
func (r *Relay) Publish(ctx context.Context, name string, data interface{}) error {
	frame, err := Encode(name, data)
	if err != nil {
		return err
	}
	if err := r.ps.Publish(ctx, r.channel, frame); err != nil {
		r.logger.Warn("redis publish failed, broadcasting locally",
			zap.String("event", name), zap.Error(err))
		r.hub.Broadcast(frame)
	}
	return nil
}

// Run forwards channel messages to the hub until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("realtime relay subscribed", zap.String("channel", r.channel))
	return r.ps.Subscribe(ctx, r.channel, r.hub.Broadcast)
}
