package events

import (
	"context"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// Redis pub/sub channels. The payload on both is the room id; subscribers
// re-read the store and push full snapshots, so lost messages only delay a
// view until the next change.
const (
	ChannelRoomChanged     = "watchparty.room.changed"
	ChannelCommentsChanged = "watchparty.comments.changed"
)

type Kind int

const (
	KindRoom Kind = iota
	KindComments
)

type Event struct {
	Kind   Kind
	RoomID string
}

// Bus fans change notifications out to snapshot subscribers through Redis
// pub/sub, keeping request handlers decoupled from live connections.
type Bus struct {
	rdb *redis.Client
}

func NewBus(rdb *redis.Client) *Bus {
	return &Bus{rdb: rdb}
}

func (b *Bus) PublishRoomChanged(ctx context.Context, roomID string) {
	b.publish(ctx, ChannelRoomChanged, roomID)
}

func (b *Bus) PublishCommentsChanged(ctx context.Context, roomID string) {
	b.publish(ctx, ChannelCommentsChanged, roomID)
}

func (b *Bus) publish(ctx context.Context, channel, roomID string) {
	if err := b.rdb.Publish(ctx, channel, roomID).Err(); err != nil {
		log.Warnf("publish %s failed for room %s: %v", channel, roomID, err)
	}
}

// Subscribe returns a channel of change events. The subscription lives
// until ctx is cancelled; the returned channel is closed on teardown.
func (b *Bus) Subscribe(ctx context.Context) <-chan Event {
	sub := b.rdb.Subscribe(ctx, ChannelRoomChanged, ChannelCommentsChanged)
	out := make(chan Event, 64)

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				ev := Event{RoomID: msg.Payload}
				switch msg.Channel {
				case ChannelRoomChanged:
					ev.Kind = KindRoom
				case ChannelCommentsChanged:
					ev.Kind = KindComments
				default:
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
