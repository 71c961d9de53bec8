package game

import (
	"fmt"
	"strconv"
	"strings"
)

// CheckStrict enforces hard mode: guess must reuse every hint revealed by
// attempts. The rules are read from the attempt history, not from merged
// Knowledge, because position-pinned Correct hints need the column.
//
// Order of checks (first violation wins):
//  1. every previously Correct position must hold the same letter;
//  2. every previously Present letter must appear somewhere in guess.
func CheckStrict(guess Word, attempts []Attempt) error {
	for _, a := range attempts {
		for i, m := range a.Result {
			if m != MarkCorrect {
				continue
			}
			if i >= len(guess) || guess[i] != a.Word[i] {
				return &HardModeViolation{
					Reason: fmt.Sprintf("%s letter must be %c", ordinal(i+1), a.Word[i]),
				}
			}
		}
	}
	for _, a := range attempts {
		for i, m := range a.Result {
			if m != MarkPresent {
				continue
			}
			if !strings.ContainsRune(string(guess), rune(a.Word[i])) {
				return &HardModeViolation{
					Reason: fmt.Sprintf("Guess must contain %c", a.Word[i]),
				}
			}
		}
	}
	return nil
}

// ordinal formats n as "1st", "2nd", "3rd", "4th", ... including the 11–13 teens.
func ordinal(n int) string {
	suffix := "th"
	switch j, k := n%10, n%100; {
	case j == 1 && k != 11:
		suffix = "st"
	case j == 2 && k != 12:
		suffix = "nd"
	case j == 3 && k != 13:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}
