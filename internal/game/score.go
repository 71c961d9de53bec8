package game

// Score implements the standard Wordle two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count remaining (non-correct) target letters by letter index.
//
// Pass 2:
//   - For each non-correct guess letter: if there is remaining count for that
//     letter, mark Present and decrement the count; otherwise mark Absent.
//
// Each target letter instance therefore credits at most one guess position.
// Both words must be WordLength uppercase letters; the session validates this.
func Score(guess, target Word) Result {
	var res Result

	// Unconsumed target letters, scoped to this call.
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		if guess[i] == target[i] {
			res[i] = MarkCorrect
		} else {
			counts[idx(target[i])]++
		}
	}

	for i := 0; i < WordLength; i++ {
		if res[i] == MarkCorrect {
			continue
		}
		j := idx(guess[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i] = MarkPresent
			counts[j]--
		} else {
			res[i] = MarkAbsent
		}
	}
	return res
}

// idx maps an uppercase ASCII letter to 0..25.
func idx(c byte) int { return int(c) - 'A' }

// isAlpha checks that a string consists only of uppercase A–Z.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
