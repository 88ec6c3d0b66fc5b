package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"jobrelay/internal/domain"

	"github.com/redis/go-redis/v9"
)

type CompletionBus struct {
	client  *redis.Client
	channel string
}

func NewCompletionBus(client *redis.Client) *CompletionBus {
	return &CompletionBus{
		client:  client,
		channel: "jobs:events:completed",
	}
}

// PublishCompletion broadcasts a completion notification to the network.
func (b *CompletionBus) PublishCompletion(ctx context.Context, event domain.CompletionNotification) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event bus: marshal completion: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("event bus: publish completion %s: %w", event.Detail.CorrelationKey, err)
	}
	return nil
}

// SubscribeCompletions opens a continuous stream for the completion router.
func (b *CompletionBus) SubscribeCompletions(ctx context.Context) (<-chan domain.CompletionNotification, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)

	msgChan := make(chan domain.CompletionNotification)

	// Background goroutine listens to Redis and forwards to our Go channel
	go func() {
		defer close(msgChan)
		for {
			select {
			case <-ctx.Done():
				pubsub.Close()
				return
			default:
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					continue
				}
				var event domain.CompletionNotification
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Event bus: dropping malformed completion payload: %v", err)
					continue
				}
				msgChan <- event
			}
		}
	}()

	return msgChan, nil
}
