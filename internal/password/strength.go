// Package password holds the authoritative password strength and generation
// logic. Score is the single source of truth: vault writes and health
// recomputes both call it, so a stored strength never disagrees with a
// recomputed one.
package password

import (
	"strings"
	"unicode"
)

// denylist holds common tokens that sink a password's score when it starts
// with any of them, case-insensitively.
var denylist = []string{"password", "123", "qwerty", "admin", "welcome", "abc"}

// Score rates a plaintext password from 0 to 100. Pure and deterministic:
// no state, no randomness, identical across processes.
//
//	length:     +10 at ≥8 chars, +10 at ≥12, +10 at ≥16
//	classes:    +10 each for lowercase, uppercase, digit, symbol
//	uniqueness: +2 per distinct character, capped at +20
//	penalties:  −10 for any run of ≥3 identical characters,
//	            −20 for a denylisted prefix
func Score(pw string) int {
	if pw == "" {
		return 0
	}

	score := 0
	runes := []rune(pw)

	if len(runes) >= 8 {
		score += 10
	}
	if len(runes) >= 12 {
		score += 10
	}
	if len(runes) >= 16 {
		score += 10
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	distinct := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		distinct[r] = struct{}{}
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	for _, ok := range []bool{hasLower, hasUpper, hasDigit, hasSymbol} {
		if ok {
			score += 10
		}
	}

	uniq := 2 * len(distinct)
	if uniq > 20 {
		uniq = 20
	}
	score += uniq

	if hasTripleRun(runes) {
		score -= 10
	}

	lowered := strings.ToLower(pw)
	for _, token := range denylist {
		if strings.HasPrefix(lowered, token) {
			score -= 20
			break
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// hasTripleRun reports whether any character repeats three or more times in
// a row.
func hasTripleRun(runes []rune) bool {
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
