package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	assert.Equal(t, "2024-03-09", DateKey(time.Date(2024, 3, 10, 8, 0, 0, 0, loc)))
}

func TestWordIndex(t *testing.T) {
	i := WordIndex("2024-03-10", "salt", 500)
	assert.Equal(t, i, WordIndex("2024-03-10", "salt", 500), "deterministic")
	assert.GreaterOrEqual(t, i, 0)
	assert.Less(t, i, 500)
	assert.Equal(t, 0, WordIndex("2024-03-10", "salt", 0))
	assert.Equal(t, 0, WordIndex("2024-03-10", "salt", 1))

	seen := map[int]bool{}
	for d := 1; d <= 28; d++ {
		key := time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC).Format(DateLayout)
		seen[WordIndex(key, "salt", 500)] = true
	}
	assert.Greater(t, len(seen), 20, "dates spread over the list")
}

func TestWordIndexDependsOnSalt(t *testing.T) {
	differ := false
	for d := 1; d <= 10 && !differ; d++ {
		key := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC).Format(DateLayout)
		differ = WordIndex(key, "a", 1000) != WordIndex(key, "b", 1000)
	}
	assert.True(t, differ)
}

func TestParseKey(t *testing.T) {
	day, err := ParseKey("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), day)

	for _, bad := range []string{"", "tomorrow", "2024-2-29", "2023-02-29", "2024-02-29T00:00:00Z"} {
		_, err := ParseKey(bad)
		assert.ErrorIs(t, err, ErrBadKey, bad)
	}
}

func TestPrevKey(t *testing.T) {
	assert.Equal(t, "2024-02-29", PrevKey("2024-03-01"))
	assert.Equal(t, "2023-12-31", PrevKey("2024-01-01"))
	assert.Empty(t, PrevKey("someday"))
	assert.Less(t, PrevKey("2024-03-01"), "2024-03-01", "keys sort in date order")
}
