package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_NilClientIsNoop(t *testing.T) {
	t.Parallel()

	p := NewPublisher(nil)
	p.Publish(context.Background(), TypeDoroCompleted, 1, 0, 10)

	var nilPub *Publisher
	nilPub.Publish(context.Background(), TypeDoroCompleted, 1, 0, 10)
}

func TestPublisher_PublishesEvent(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	sub := rdb.Subscribe(context.Background(), Channel)
	defer func() { _ = sub.Close() }()
	_, err = sub.Receive(context.Background())
	require.NoError(t, err)

	p := NewPublisher(rdb)
	p.Publish(context.Background(), TypeDoroLiked, 1, 2, 10)

	select {
	case msg := <-sub.Channel():
		var evt Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &evt))
		assert.NotEmpty(t, evt.ID)
		assert.Equal(t, TypeDoroLiked, evt.Type)
		assert.Equal(t, uint(1), evt.ActorID)
		assert.Equal(t, uint(2), evt.TargetUser)
		assert.Equal(t, uint(10), evt.DoroID)
		assert.WithinDuration(t, time.Now().UTC(), evt.OccurredAt, time.Minute)
	case <-time.After(time.Second):
		t.Fatal("no event received on the channel")
	}
}

func TestPublisher_DeadRedisDoesNotFail(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	mr.Close()

	// Publish must swallow the connection error.
	p := NewPublisher(rdb)
	p.Publish(context.Background(), TypeFollowCreated, 1, 2, 0)
}
