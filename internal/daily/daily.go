// Package daily names the daily puzzle and everything stored about it.
//
// A puzzle is identified by its key: the UTC calendar date as YYYY-MM-DD.
// Keys sort lexically in date order, so they are compared as strings.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// DateLayout is the time layout of a puzzle key.
const DateLayout = "2006-01-02"

// ErrBadKey is returned for strings that are not a YYYY-MM-DD date.
var ErrBadKey = errors.New("date must be YYYY-MM-DD")

// DateKey returns the key of the puzzle running at t.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseKey validates key and returns midnight UTC of that day.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return t, nil
}

// PrevKey returns the key of the day before key, or "" if key is invalid.
func PrevKey(key string) string {
	t, err := ParseKey(key)
	if err != nil {
		return ""
	}
	return DateKey(t.AddDate(0, 0, -1))
}

// WordIndex maps key onto [0, n). The first eight bytes of
// HMAC-SHA256(salt, key), read big-endian, are reduced mod n, so the pick
// cannot be guessed without the salt.
func WordIndex(key, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	mac := hmac.New(sha256.New, []byte(salt))
	_, _ = io.WriteString(mac, key)
	return int(binary.BigEndian.Uint64(mac.Sum(nil)) % uint64(n))
}
