package eventstream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/rustperms/rustperms/pkg/rustperms/eventstream"
)

// Envelope is what actually crosses the wire (Publisher.Publish marshals it,
// Consumer.Run unmarshals it); this is the one part of the package that
// doesn't require a live RabbitMQ connection to exercise.
func TestEnvelopeRoundTrip(t *testing.T) {
	want := eventstream.Envelope{Sequence: 7, SerializedDelta: "deadbeef"}

	body, err := msgpack.Marshal(want)
	require.NoError(t, err)

	var got eventstream.Envelope
	require.NoError(t, msgpack.Unmarshal(body, &got))

	assert.Equal(t, want, got)
}

func TestExchangeNameIsStable(t *testing.T) {
	// Replicas and the master must agree on the exchange name out of band
	// (no discovery protocol); regressing this string would silently
	// partition every node from the stream.
	assert.Equal(t, "rustperms.deltas", eventstream.ExchangeName)
}
