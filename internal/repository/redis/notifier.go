package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

const (
	ChannelFeedChanged = "feed:changed"
)

// feedNotifier is the push channel behind the live feed query. Every client
// process watching the channel re-derives the full feed on each event, so
// the payload only needs to say that something changed, not what the feed
// now looks like.
type feedNotifier struct {
	client *redis.Client
}

var _ domain.FeedNotifier = (*feedNotifier)(nil)

func NewFeedNotifier(client *redis.Client) *feedNotifier {
	return &feedNotifier{
		client,
	}
}

func (n *feedNotifier) Publish(ctx context.Context, change domain.FeedChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, ChannelFeedChanged, data).Err()
}

// Watch subscribes to the change channel. The returned channel closes when
// ctx is cancelled or the connection drops; reconnecting is the caller's
// call, there is no retry loop in here.
func (n *feedNotifier) Watch(ctx context.Context) (<-chan domain.FeedChange, error) {
	pubsub := n.client.Subscribe(ctx, ChannelFeedChanged)

	// Force the subscription to be established before reporting success.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan domain.FeedChange, 16)
	go func() {
		defer close(out)
		defer func() {
			_ = pubsub.Close()
		}()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var change domain.FeedChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					logrus.Warnf("dropping malformed feed change payload: %v", err)
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
