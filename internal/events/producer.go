// internal/events/producer.go
//
// Game event feed for analytics consumers.
// Events are JSON, keyed by game ID on the game-events topic:
//   - game_start: a new game (mode, strict).
//   - guess:      one accepted guess (attempt number, marks, state).
//   - game_end:   a finished game (won, attempts).
//
// Publishing is best effort: failures are logged and never reach the player.
// With no brokers configured a no-op Publisher is used.

package events

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-engine/internal/game"
)

const TopicGameEvents = "game-events"

// EventType represents the type of game event
type EventType string

const (
	EventGameStart EventType = "game_start"
	EventGuess     EventType = "guess"
	EventGameEnd   EventType = "game_end"
)

// GameEvent is the envelope written to Kafka.
type GameEvent struct {
	Type      EventType `json:"type"`
	GameID    string    `json:"gameId"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type GameStartData struct {
	Mode   string `json:"mode"`
	Strict bool   `json:"strict"`
}

type GuessData struct {
	Attempt int         `json:"attempt"`
	Result  game.Result `json:"result"`
	State   game.Status `json:"state"`
}

type GameEndData struct {
	Won      bool `json:"won"`
	Attempts int  `json:"attempts"`
}

// Publisher is what the hosts depend on.
type Publisher interface {
	GameStart(gameID, mode string, strict bool)
	Guess(gameID string, t game.Turn)
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) GameStart(string, string, bool) {}
func (Nop) Guess(string, game.Turn)        {}
func (Nop) Close() error                   { return nil }

// Producer publishes events through a sarama SyncProducer.
type Producer struct {
	producer sarama.SyncProducer
}

// NewPublisher connects to brokers, or returns Nop when brokers is empty.
func NewPublisher(brokers []string) (Publisher, error) {
	if len(brokers) == 0 {
		return Nop{}, nil
	}
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	log.Info().Strs("brokers", brokers).Msg("kafka producer connected")
	return NewProducer(p), nil
}

// NewProducer wraps an existing SyncProducer (tests pass sarama's mocks).
func NewProducer(p sarama.SyncProducer) *Producer {
	return &Producer{producer: p}
}

// GameStart emits a game_start event.
func (p *Producer) GameStart(gameID, mode string, strict bool) {
	p.send(GameEvent{
		Type:      EventGameStart,
		GameID:    gameID,
		Timestamp: time.Now().UTC(),
		Data:      GameStartData{Mode: mode, Strict: strict},
	})
}

// Guess emits a guess event, followed by game_end when t finished the game.
func (p *Producer) Guess(gameID string, t game.Turn) {
	p.send(GameEvent{
		Type:      EventGuess,
		GameID:    gameID,
		Timestamp: time.Now().UTC(),
		Data:      GuessData{Attempt: t.Attempt, Result: t.Result, State: t.Status},
	})
	if t.Status.Finished() {
		p.send(GameEvent{
			Type:      EventGameEnd,
			GameID:    gameID,
			Timestamp: time.Now().UTC(),
			Data:      GameEndData{Won: t.Status == game.StatusWon, Attempts: t.Attempt},
		})
	}
}

// send sends an event to Kafka
func (p *Producer) send(event GameEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("gameId", event.GameID).Msg("marshal event")
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: TopicGameEvents,
		Key:   sarama.StringEncoder(event.GameID),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Warn().Err(err).Str("gameId", event.GameID).Str("type", string(event.Type)).Msg("send event")
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.producer.Close()
}
