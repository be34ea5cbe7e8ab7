// Package numbers holds the pure rules of the guessing game: what a valid
// number looks like and how a guess is scored against a secret.
package numbers

import (
	"github.com/mcoot/numbermaster/internal/dependencies/random"
	"github.com/mcoot/numbermaster/internal/model"
)

const digits = "0123456789"

// Valid returns true if s is exactly five ASCII digits with no repeats.
// The same rule applies to committed numbers and guesses.
func Valid(s string) bool {
	if len(s) != model.NumberLength {
		return false
	}
	var seen [10]bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		if seen[c-'0'] {
			return false
		}
		seen[c-'0'] = true
	}
	return true
}

// Score compares a guess against the target. Both must be valid.
func Score(guess, target string) model.Feedback {
	var fb model.Feedback
	var inTarget [10]bool
	for i := 0; i < len(target); i++ {
		inTarget[target[i]-'0'] = true
	}
	common := 0
	for i := 0; i < len(guess); i++ {
		if i < len(target) && guess[i] == target[i] {
			fb.CorrectPosition++
		}
		if inTarget[guess[i]-'0'] {
			common++
		}
	}
	fb.CorrectDigitWrongPosition = common - fb.CorrectPosition
	return fb
}

// Suggest returns a random valid number
func Suggest(r random.Random) string {
	pool := []byte(digits)
	out := make([]byte, 0, model.NumberLength)
	for i := 0; i < model.NumberLength; i++ {
		j := r.Intn(len(pool))
		out = append(out, pool[j])
		pool = append(pool[:j], pool[j+1:]...)
	}
	return string(out)
}
