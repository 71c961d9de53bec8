package game

// MergeKnowledge folds one scored guess into the per-letter knowledge and
// returns the new state. current is not modified.
//
// A letter's stored mark is replaced only by a strictly stronger mark, so a
// repeated letter scored Absent in one position cannot erase Correct or
// Present learned from another position or an earlier guess.
func MergeKnowledge(current Knowledge, guess Word, res Result) Knowledge {
	next := current.Clone()
	for i := 0; i < len(guess) && i < WordLength; i++ {
		letter := guess[i]
		if res[i] > next[letter] {
			next[letter] = res[i]
		}
	}
	return next
}
