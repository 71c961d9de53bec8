package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	a = MarkAbsent
	p = MarkPresent
	c = MarkCorrect
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		guess  Word
		target Word
		want   Result
	}{
		{"exact match", "ABCDE", "ABCDE", Result{c, c, c, c, c}},
		{"single present letter", "FJORD", "CRANE", Result{a, a, a, p, a}},
		{"repeated guess letter, one in target", "EEEEE", "ABCDE", Result{a, a, a, a, c}},
		{"duplicates split between correct and present", "LLAMA", "ALARM", Result{a, c, c, p, p}},
		{"reverse of the above", "ALARM", "LLAMA", Result{p, c, c, a, p}},
		{"second copy exceeds target count", "SPEED", "ABIDE", Result{a, a, p, a, p}},
		{"present before correct of same letter", "ROBOT", "FLOOR", Result{p, p, a, c, a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.guess, tt.target))
		})
	}
}

func TestScoreNeverOvercountsLetters(t *testing.T) {
	pool := []Word{"CRANE", "LLAMA", "ALARM", "EERIE", "SPEED", "ABIDE", "GEESE", "ROBOT", "FLOOR", "MAMMA"}
	for _, guess := range pool {
		for _, target := range pool {
			res := Score(guess, target)
			marked := map[byte]int{}
			for i := 0; i < WordLength; i++ {
				if res[i] == MarkCorrect {
					assert.Equal(t, target[i], guess[i])
				}
				if res[i] != MarkAbsent {
					marked[guess[i]]++
				}
			}
			for letter, n := range marked {
				assert.LessOrEqual(t, n, strings.Count(string(target), string(letter)),
					"%s vs %s letter %c", guess, target, letter)
			}
			assert.Equal(t, guess == target, res.Solved())
		}
	}
}

func TestMergeKnowledgeOnlyUpgrades(t *testing.T) {
	k := MergeKnowledge(Knowledge{}, "LLAMA", Score("LLAMA", "ALARM"))
	assert.Equal(t, MarkCorrect, k.Get('L'), "best mark across one guess wins")
	assert.Equal(t, MarkCorrect, k.Get('A'))
	assert.Equal(t, MarkPresent, k.Get('M'))
	assert.Equal(t, MarkUnseen, k.Get('Z'))

	next := MergeKnowledge(k, "MOULD", Score("MOULD", "ALARM"))
	assert.Equal(t, MarkPresent, next.Get('M'))
	assert.Equal(t, MarkCorrect, next.Get('L'), "correct is not downgraded to present")
	assert.Equal(t, MarkAbsent, next.Get('O'))

	assert.Equal(t, MarkUnseen, k.Get('O'), "input knowledge is not modified")
}
