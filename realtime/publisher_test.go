package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserChannel(t *testing.T) {
	assert.Equal(t, "notifications:user:u-42", UserChannel("u-42"))
}

func TestEnvelopeEncoding(t *testing.T) {
	data, err := json.Marshal(Envelope{Event: eventUpdate, Data: map[string]string{"id": "n1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"update","data":{"id":"n1"}}`, string(data))
}

func TestRedisPublisherReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	err := NewRedisPublisher(client).Publish(context.Background(), "u-1", map[string]string{"id": "n1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notifications:user:u-1")
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), "u-1", nil))
}
