package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-engine/internal/game"
)

type envelope struct {
	Type   EventType       `json:"type"`
	GameID string          `json:"gameId"`
	Data   json.RawMessage `json:"data"`
}

func expectEvent(t *testing.T, mp *mocks.SyncProducer, want EventType, check func(data json.RawMessage)) {
	mp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var env envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		if env.Type != want {
			return errors.New("unexpected event type " + string(env.Type))
		}
		if env.GameID != "g1" {
			return errors.New("unexpected game id " + env.GameID)
		}
		if check != nil {
			check(env.Data)
		}
		return nil
	})
}

func TestProducerGameStart(t *testing.T) {
	mp := mocks.NewSyncProducer(t, nil)
	expectEvent(t, mp, EventGameStart, func(data json.RawMessage) {
		assert.JSONEq(t, `{"mode":"daily","strict":true}`, string(data))
	})

	p := NewProducer(mp)
	p.GameStart("g1", "daily", true)
	require.NoError(t, p.Close())
}

func TestProducerGuessAndEnd(t *testing.T) {
	mp := mocks.NewSyncProducer(t, nil)
	expectEvent(t, mp, EventGuess, func(data json.RawMessage) {
		assert.JSONEq(t, `{"attempt":3,"result":["correct","correct","correct","correct","correct"],"state":"won"}`, string(data))
	})
	expectEvent(t, mp, EventGameEnd, func(data json.RawMessage) {
		assert.JSONEq(t, `{"won":true,"attempts":3}`, string(data))
	})

	p := NewProducer(mp)
	p.Guess("g1", game.Turn{
		Result:  game.Result{game.MarkCorrect, game.MarkCorrect, game.MarkCorrect, game.MarkCorrect, game.MarkCorrect},
		Status:  game.StatusWon,
		Attempt: 3,
	})
	require.NoError(t, p.Close())
}

func TestProducerMidGameGuessOnly(t *testing.T) {
	mp := mocks.NewSyncProducer(t, nil)
	expectEvent(t, mp, EventGuess, nil)

	p := NewProducer(mp)
	p.Guess("g1", game.Turn{Status: game.StatusPlaying, Attempt: 1})
	require.NoError(t, p.Close())
}

func TestProducerSendFailureIsSwallowed(t *testing.T) {
	mp := mocks.NewSyncProducer(t, nil)
	mp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewProducer(mp)
	assert.NotPanics(t, func() { p.GameStart("g1", "random", false) })
	require.NoError(t, p.Close())
}

func TestNewPublisherWithoutBrokers(t *testing.T) {
	pub, err := NewPublisher(nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, pub)
	pub.GameStart("g1", "random", false)
	pub.Guess("g1", game.Turn{})
	assert.NoError(t, pub.Close())
}
