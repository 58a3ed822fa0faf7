//go:build integration

package analytics

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"parcelview/pkg/testutil/containers"
)

func TestPublisherIntegration(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	const topic = "parcelview.lookups"

	pub, err := NewPublisher([]string{rp.Seed}, topic, logger)
	require.NoError(t, err)
	t.Cleanup(pub.Close)

	require.NoError(t, pub.EnsureTopic(ctx))
	// Creating an existing topic must not fail.
	require.NoError(t, pub.EnsureTopic(ctx))

	sent := Event{
		BBL:              "1-00685-0001",
		Endpoint:         "transactions",
		TransactionCount: 3,
		TaxRowCount:      0,
		ClientPlatform:   "Macintosh/Chrome",
		RequestID:        "req-1",
	}
	pub.Emit(ctx, sent)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Seed),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	deadline, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	fetches := consumer.PollFetches(deadline)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, []byte(sent.BBL), records[0].Key)

	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, sent.BBL, got.BBL)
	assert.Equal(t, sent.Endpoint, got.Endpoint)
	assert.Equal(t, sent.TransactionCount, got.TransactionCount)
	assert.False(t, got.Timestamp.IsZero(), "publisher stamps missing timestamps")
}
