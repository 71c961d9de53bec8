package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStreaks(t *testing.T) {
	var s Statistics
	s.Record(Won(3))
	s.Record(Won(4))
	s.Record(Lost())

	assert.Equal(t, 3, s.GamesPlayed)
	assert.Equal(t, 2, s.GamesWon)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 2, s.MaxStreak)
	assert.Equal(t, [Buckets]int{0, 0, 1, 1, 0, 0}, s.GuessDistribution)

	s.Record(Won(1))
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 2, s.MaxStreak, "max streak survives a shorter run")
}

func TestRecordOutOfRangeWin(t *testing.T) {
	var s Statistics
	s.Record(Won(0))
	s.Record(Won(7))
	assert.Equal(t, 2, s.GamesWon)
	assert.Equal(t, [Buckets]int{}, s.GuessDistribution)
}

func TestWinPercentage(t *testing.T) {
	var s Statistics
	assert.Equal(t, 0, s.WinPercentage())

	s.Record(Won(2))
	s.Record(Won(2))
	s.Record(Lost())
	assert.Equal(t, 67, s.WinPercentage())

	s.Reset()
	assert.Equal(t, Statistics{}, s)
}

func TestDecode(t *testing.T) {
	s, err := Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, Statistics{}, s)

	s, err = Decode([]byte(`{"gamesPlayed":4,"gamesWon":3,"guessDistribution":[0,1,2,0,0,0]}`))
	require.NoError(t, err)
	assert.Equal(t, 4, s.GamesPlayed)
	assert.Equal(t, 3, s.GamesWon)
	assert.Equal(t, 0, s.MaxStreak)
	assert.Equal(t, 2, s.GuessDistribution[2])

	_, err = Decode([]byte(`{`))
	assert.Error(t, err)
}
