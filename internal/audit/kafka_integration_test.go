//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"countries/pkg/testutil/containers"
)

func TestKafkaSink(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	broker := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	const topic = "countries.audit.test"
	sink, err := NewKafkaSink(ctx, []string{broker.SeedBroker}, topic)
	require.NoError(t, err)
	defer func() { _ = sink.Close(context.Background()) }()

	// A second sink on the same topic must tolerate the existing topic.
	again, err := NewKafkaSink(ctx, []string{broker.SeedBroker}, topic)
	require.NoError(t, err)
	_ = again.Close(ctx)

	require.NoError(t, sink.Append(ctx, Event{ID: "evt-1", Action: ActionCountryCreated, CountryID: 7, CountryName: "Chile"}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.SeedBroker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, "7", string(records[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, "Chile", got.CountryName)
}
