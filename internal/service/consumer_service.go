package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"media-retrieval-be/internal/config"
	"media-retrieval-be/internal/dto"
	"media-retrieval-be/internal/pkg/logger"
	"media-retrieval-be/pkg/process"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// indexerTimeout bounds one indexer run. Indexing a large dataset is slow
// but not unbounded; a stuck interpreter should not leak a goroutine forever.
const indexerTimeout = 30 * time.Minute

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService reacts to DATASET_INGESTED events by running the external
// indexer for the session. Ingestion has already answered its HTTP request
// by the time this runs, so failure here is logged and never surfaced.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	retrieval config.RetrievalConfig
	runner    process.IRunner
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	retrieval config.RetrievalConfig,
	runner process.IRunner,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		retrieval: retrieval,
		runner:    runner,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.DatasetIngestedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("ConsumerService", "Running dataset indexer", map[string]interface{}{"session_id": payload.SessionId})

	ctx, cancel := context.WithTimeout(context.Background(), indexerTimeout)
	defer cancel()

	script := filepath.Join(cs.retrieval.ScriptDir, "datasetProcess.py")
	stdout, stderr, err := cs.runner.Run(ctx, cs.retrieval.PythonBin, script, "--session", payload.SessionId)
	if err != nil {
		cs.logger.Error("ConsumerService", "Dataset indexer failed", map[string]interface{}{
			"session_id": payload.SessionId,
			"stderr":     stderr,
			"error":      err.Error(),
		})
	} else {
		cs.logger.Info("ConsumerService", "Dataset indexer finished", map[string]interface{}{
			"session_id": payload.SessionId,
			"stdout":     stdout,
		})
	}

	msg.Ack()
}
