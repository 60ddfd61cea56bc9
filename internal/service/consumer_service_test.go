package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"media-retrieval-be/internal/config"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ingestTopic = "DATASET_INGESTED"

func newConsumer(t *testing.T, runner *stubRunner) *gochannel.GoChannel {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	retrieval := config.RetrievalConfig{
		PythonBin:   "python",
		ScriptDir:   "src",
		IngestTopic: ingestTopic,
	}
	consumer := NewConsumerService(pubSub, ingestTopic, retrieval, runner, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, consumer.Consume(ctx))

	return pubSub
}

func TestConsumerRunsIndexer(t *testing.T) {
	ran := make(chan struct{}, 1)
	runner := &stubRunner{onRun: func(ctx context.Context) { ran <- struct{}{} }}
	pubSub := newConsumer(t, runner)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"session_id":"sess-1"}`))
	require.NoError(t, pubSub.Publish(ingestTopic, msg))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("indexer was not invoked")
	}

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "python", runner.calls[0].program)
	assert.Equal(t, []string{filepath.Join("src", "datasetProcess.py"), "--session", "sess-1"}, runner.calls[0].args)
}

func TestConsumerAcksBadPayload(t *testing.T) {
	ran := make(chan struct{}, 1)
	runner := &stubRunner{onRun: func(ctx context.Context) { ran <- struct{}{} }}
	pubSub := newConsumer(t, runner)

	// A malformed message is acked and skipped; the consumer stays alive
	// and still handles the next well-formed one.
	bad := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	require.NoError(t, pubSub.Publish(ingestTopic, bad))

	good := message.NewMessage(watermill.NewUUID(), []byte(`{"session_id":"sess-2"}`))
	require.NoError(t, pubSub.Publish(ingestTopic, good))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("indexer was not invoked for the well-formed message")
	}

	require.Len(t, runner.calls, 1, "the malformed message must not reach the indexer")
	assert.Contains(t, runner.calls[0].args, "sess-2")
}
