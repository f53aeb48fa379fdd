// Package event publishes game lifecycle events to Kafka. Publishing is
// optional: with no brokers configured the no-op publisher is used, so local
// development does not require a running cluster.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/gridplay/tictactoe-backend/internal/entity"
)

// GameFinished is the payload emitted when a game reaches a terminal state.
type GameFinished struct {
	GameID     string    `json:"gameId"`
	Winner     string    `json:"winner"`
	IsDraw     bool      `json:"isDraw"`
	Size       int       `json:"size"`
	WinLength  int       `json:"winLength"`
	FinishedAt time.Time `json:"finishedAt"`
}

type Publisher interface {
	PublishGameFinished(game *entity.Game) error
	Close() error
}

type producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer connects a synchronous Kafka producer. An empty broker list
// returns the no-op publisher.
func NewProducer(brokers []string, topic string) (Publisher, error) {
	if len(brokers) == 0 {
		return NoopPublisher{}, nil
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	syncProducer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &producer{
		producer: syncProducer,
		topic:    topic,
	}, nil
}

func (that *producer) PublishGameFinished(game *entity.Game) error {
	payload := GameFinished{
		GameID:     game.ID,
		Winner:     game.Winner,
		IsDraw:     game.IsDraw(),
		Size:       game.Size,
		WinLength:  game.WinLength,
		FinishedAt: time.Now().UTC(),
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal game finished event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: that.topic,
		Key:   sarama.StringEncoder(game.ID),
		Value: sarama.ByteEncoder(value),
	}

	if _, _, err = that.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to send game finished event: %w", err)
	}

	return nil
}

func (that *producer) Close() error {
	if err := that.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}

	return nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishGameFinished(*entity.Game) error { return nil }

func (NoopPublisher) Close() error { return nil }
